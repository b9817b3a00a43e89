package request

// ReportRequest is the query string shared by every report.
type ReportRequest struct {
	From   string `form:"from" binding:"date"`
	To     string `form:"to" binding:"date"`
	Format string `form:"format" binding:"omitempty,oneof=json xlsx"`
	Top    int    `form:"top" binding:"omitempty,min=1,max=100"`
}
