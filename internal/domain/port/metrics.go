package port

// Metrics счётчики событий бота
type Metrics interface {
	VisitSaved()
	VisitRejected(reason string)
	ReportGenerated(ok bool)
	BroadcastSent()
}
