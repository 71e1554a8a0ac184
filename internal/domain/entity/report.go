package entity

import "time"

// ColumnKind тип значений в колонке отчёта
type ColumnKind string

const (
	ColumnInteger ColumnKind = "integer"
	ColumnText    ColumnKind = "text"
	ColumnFloat   ColumnKind = "float"
	ColumnURL     ColumnKind = "url"
)

// ReportColumn описание колонки
type ReportColumn struct {
	Header string
	Kind   ColumnKind
	Width  float64
}

// ReportDocument табличный документ, готовый к сериализации в xlsx
type ReportDocument struct {
	Title   string
	From    time.Time
	To      time.Time
	Columns []ReportColumn
	Rows    [][]any
}

// TimeRange закрытый интервал [From, To]
type TimeRange struct {
	From time.Time
	To   time.Time
}
