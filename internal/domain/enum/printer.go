package enum

// PrinterConnection is how the server reaches a thermal printer.
type PrinterConnection string

const (
	PrinterUSB     PrinterConnection = "usb"
	PrinterNetwork PrinterConnection = "network"
	PrinterNone    PrinterConnection = "none"
)

// PrinterPurpose selects which documents a printer receives.
type PrinterPurpose string

const (
	PurposeReceipt PrinterPurpose = "receipt"
	PurposeKitchen PrinterPurpose = "kitchen"
)
