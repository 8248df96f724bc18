package domain

// Table is a mongo collection name
type Table string

const (
	TableSales         Table = "sales"
	TableSaleCounters  Table = "sale_counters"
	TableMarketConfigs Table = "market_configs"
)
