package enums

// OutboxAggregateType maps to the aggregate_type enum in Postgres.
type OutboxAggregateType string

const (
	AggregateOrder OutboxAggregateType = "order"
	AggregateShop  OutboxAggregateType = "shop"
)

func (a OutboxAggregateType) IsValid() bool {
	return a == AggregateOrder || a == AggregateShop
}

// OutboxEventType maps to the event_type enum in Postgres.
type OutboxEventType string

const (
	EventOrderConfirmed  OutboxEventType = "order_confirmed"
	EventCatalogImported OutboxEventType = "catalog_imported"
)

// eventAggregates pins every event type to the aggregate it is emitted for.
var eventAggregates = map[OutboxEventType]OutboxAggregateType{
	EventOrderConfirmed:  AggregateOrder,
	EventCatalogImported: AggregateShop,
}

func (e OutboxEventType) IsValid() bool {
	_, ok := eventAggregates[e]
	return ok
}

// Aggregate returns the aggregate type e belongs to, or "" for unknown events.
func (e OutboxEventType) Aggregate() OutboxAggregateType {
	return eventAggregates[e]
}
