package domain

// Calculate runs the full yield model: validation, per-month energy, and
// annual aggregation. It is pure; identical inputs give identical output.
func Calculate(p SystemParameters, series []MonthlyMeteorology) (AnnualSummary, error) {
	if err := p.Validate(); err != nil {
		return AnnualSummary{}, err
	}
	if err := ValidateSeries(series); err != nil {
		return AnnualSummary{}, err
	}

	monthly := make([]MonthlyResult, 0, MonthsPerYear)
	for _, m := range series {
		monthly = append(monthly, MonthlyEnergy(p, m))
	}
	return Summarize(monthly, p.SystemSize), nil
}
