package request

// PrinterRequest creates or updates a printer configuration.
type PrinterRequest struct {
	Name         *string `json:"name" binding:"omitempty,min=1,max=100"`
	Connection   *string `json:"connection" binding:"omitempty,oneof=usb network none"`
	DevicePath   *string `json:"device_path" binding:"omitempty,max=255"`
	Address      *string `json:"address" binding:"omitempty,max=255"`
	PaperWidthMM *int    `json:"paper_width_mm" binding:"omitempty,oneof=58 80"`
	Copies       *int    `json:"copies" binding:"omitempty,min=1,max=5"`
	Purpose      *string `json:"purpose" binding:"omitempty,oneof=receipt kitchen"`
	AutoPrint    *bool   `json:"auto_print"`
	IsDefault    *bool   `json:"is_default"`
}
