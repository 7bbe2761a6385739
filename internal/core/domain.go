package core

type (
	Customer struct {
		ID   ID     `json:"id"`
		Name string `json:"name"`
	}

	// Transaction amounts are never validated: fractional and negative values are kept as-is.
	Transaction struct {
		CustomerID ID      `json:"customer_id"`
		Date       string  `json:"date"`
		Amount     float64 `json:"amount"`
	}

	// Dataset is the immutable payload produced by a single load.
	Dataset struct {
		Customers    []Customer    `json:"customers"`
		Transactions []Transaction `json:"transactions"`
	}

	// Row is a transaction joined with its owning customer, ready for rendering.
	Row struct {
		Customer    Customer
		Transaction Transaction
	}

	// DateTotal is the summed amount of one customer's transactions sharing a date.
	DateTotal struct {
		Date   string  `json:"date"`
		Amount float64 `json:"amount"`
	}

	// Aggregate is the per-customer chart and summary data.
	// Series keeps dates in order of first occurrence.
	Aggregate struct {
		Customer    Customer    `json:"customer"`
		Series      []DateTotal `json:"series"`
		TotalAmount float64     `json:"total_amount"`
		TotalCount  int         `json:"total_count"`
	}

	// Stats summarizes a loaded dataset for logs and notifications.
	Stats struct {
		Source       string `json:"source"`
		Customers    int    `json:"customers"`
		Transactions int    `json:"transactions"`
		Orphans      int    `json:"orphans"`
	}
)

// Index maps identifiers to customers. When ids repeat the first customer wins,
// matching a linear find over the customer list.
func (d Dataset) Index() map[ID]Customer {
	idx := make(map[ID]Customer, len(d.Customers))
	for _, c := range d.Customers {
		if _, ok := idx[c.ID]; ok {
			continue
		}
		idx[c.ID] = c
	}
	return idx
}

// Stats counts customers, transactions and orphaned transactions.
func (d Dataset) Stats(source string) Stats {
	idx := d.Index()
	orphans := 0
	for _, t := range d.Transactions {
		if _, ok := idx[t.CustomerID]; !ok {
			orphans++
		}
	}
	return Stats{
		Source:       source,
		Customers:    len(d.Customers),
		Transactions: len(d.Transactions),
		Orphans:      orphans,
	}
}
