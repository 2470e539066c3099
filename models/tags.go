package models

import (
	"encoding/json"
	"strings"
)

// TagList decodes from either ["a","b"] or "a, b".
type TagList []string

func (t *TagList) UnmarshalJSON(data []byte) error {
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*t = normalizeTags(list)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*t = normalizeTags(strings.Split(s, ","))
	return nil
}

func normalizeTags(in []string) TagList {
	out := make(TagList, 0, len(in))
	for _, tag := range in {
		if tag = strings.TrimSpace(tag); tag != "" {
			out = append(out, tag)
		}
	}
	return out
}
