package analysis

// Run executes the full pipeline on a raw table: schema classification,
// schema-specific validation and parsing, then the KPI engine. It returns the
// detected schema alongside the result so callers can phrase the narrative.
func Run(table RawTable) (*Result, Schema, error) {
	schema := DetectSchema(table)

	var ds Dataset
	switch schema {
	case SchemaPnL:
		data, err := ParsePnL(table)
		if err != nil {
			return nil, schema, err
		}
		ds = BuildPnLDataset(data)
	default:
		data, err := ParseLedger(table)
		if err != nil {
			return nil, schema, err
		}
		ds = BuildLedgerDataset(data)
	}

	return Analyze(ds), schema, nil
}
