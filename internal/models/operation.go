package models

// Operation identifies one document operation offered by the tool
type Operation string

const (
	OperationMerge     Operation = "merge"
	OperationSplit     Operation = "split"
	OperationCompress  Operation = "compress"
	OperationWord      Operation = "word"
	OperationExcel     Operation = "excel"
	OperationJPG       Operation = "jpg"
	OperationWatermark Operation = "watermark"
	OperationPreview   Operation = "preview"
)

// Operations lists the user-selectable modes in sidebar order
func Operations() []Operation {
	return []Operation{
		OperationMerge,
		OperationSplit,
		OperationCompress,
		OperationWord,
		OperationExcel,
		OperationJPG,
		OperationWatermark,
	}
}

// Title returns the label shown for the operation in the UI
func (o Operation) Title() string {
	switch o {
	case OperationMerge:
		return "Merge PDFs"
	case OperationSplit:
		return "Split PDF"
	case OperationCompress:
		return "Compress PDF"
	case OperationWord:
		return "Convert PDF to Word"
	case OperationExcel:
		return "Convert PDF to Excel"
	case OperationJPG:
		return "Convert PDF to JPG"
	case OperationWatermark:
		return "Add Watermark"
	case OperationPreview:
		return "Preview Pages"
	}
	return string(o)
}

// Valid reports whether o is a known operation
func (o Operation) Valid() bool {
	switch o {
	case OperationMerge, OperationSplit, OperationCompress, OperationWord,
		OperationExcel, OperationJPG, OperationWatermark, OperationPreview:
		return true
	}
	return false
}
