package entity

// Shop торговая точка, на которой наклеен QR-код
type Shop struct {
	Code string // короткий код из QR
	Name string // отображаемое название
}
