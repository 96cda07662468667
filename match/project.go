package match

// Project turns resolved trades into output rows, dropping the ones without
// an opening time. It returns the rows and how many were dropped.
func Project(resolved []ResolvedTrade) ([]RoundTrip, int) {
	out := make([]RoundTrip, 0, len(resolved))
	dropped := 0
	for _, r := range resolved {
		if !r.Resolved || r.OpenTime.IsZero() {
			dropped++
			continue
		}
		out = append(out, RoundTrip{
			CloseTime:  r.ExecutionTime,
			OpenTime:   r.OpenTime,
			Contract:   r.Contract,
			Quantity:   r.Quantity,
			OpenPrice:  r.OpenPrice,
			ClosePrice: r.ClosePrice,
			NetPnL:     r.NetPnL,
			FillID:     r.CloseFillID,
		})
	}
	return out, dropped
}
