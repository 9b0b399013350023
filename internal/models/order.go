package models

// OrderLine is one production line item of an order as returned by the order
// endpoint. One order number may map to several line items. The JSON tags
// match the upstream API field names.
type OrderLine struct {
	Project         string  `json:"tdespacho"`
	OrderNumber     string  `json:"num"`
	Description     string  `json:"nom"`
	Quantity        float64 `json:"cant"`
	Pending         float64 `json:"pend"`
	ProductionOrder int64   `json:"opId"`

	// Nine optional production milestone dates, ISO formatted or null.
	DateElecMechDesign *string `json:"fechaf0"`
	DateApproval       *string `json:"fechaf1"`
	DateComponents     *string `json:"fechaf2"`
	DatePurchasing     *string `json:"fechaf3"`
	DateLMFCons        *string `json:"fechaf4"`
	DateMechDesign     *string `json:"fechaf5"`
	DateMetalwork      *string `json:"fechaf6"`
	DateElecMaterials  *string `json:"fechaf7"`
	DateDispatch       *string `json:"fechaf8"`
}

// Milestone pairs a display label with its optional date value.
type Milestone struct {
	Label string
	Date  *string
}

// Milestones returns the nine production milestones in presentation order.
func (o OrderLine) Milestones() []Milestone {
	return []Milestone{
		{"Disp elec y mec", o.DateElecMechDesign},
		{"Aprobacion", o.DateApproval},
		{"Comp y final", o.DateComponents},
		{"Compras", o.DatePurchasing},
		{"LMF Cons", o.DateLMFCons},
		{"Dis mecanico", o.DateMechDesign},
		{"Metalmecanica", o.DateMetalwork},
		{"Entr mater ele", o.DateElecMaterials},
		{"Despacho", o.DateDispatch},
	}
}
