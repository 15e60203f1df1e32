package crm

const (
	TopicCustomerDeleted = "customer.deleted"
)

// Partition key = customer_id, so every event about one customer keeps order.
func PartitionKey(customerID string) []byte { return []byte(customerID) }
