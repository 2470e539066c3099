package database

// Collection names. They match the names the existing data set was written with.
const (
	UsersCollection           = "users"
	ProductsCollection        = "products"
	DogsCollection            = "dogs"
	AdoptionOrdersCollection  = "orders"
	AccessoryOrdersCollection = "accessoryorders"
	BookingsCollection        = "doctorbookings"
	PostsCollection           = "dogposts"
	HealthRecordsCollection   = "healthrecords"
	CountersCollection        = "counters"
)
