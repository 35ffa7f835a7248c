package models

// Mode selects how a dataset directory is interpreted.
type Mode int

const (
	// ModeTrain reads root/<class>/<file>.
	ModeTrain Mode = iota
	// ModeInference reads root/<file>.
	ModeInference
)

func (m Mode) String() string {
	switch m {
	case ModeTrain:
		return "train"
	case ModeInference:
		return "inference"
	default:
		return "unknown"
	}
}

// Document is one loaded file. Label is empty for unlabeled documents.
type Document struct {
	Text     string `json:"text"`
	Label    string `json:"label,omitempty"`
	FileName string `json:"file_name"`
}

func (d Document) Labeled() bool {
	return d.Label != ""
}

// Dataset is an ordered set of documents loaded in the same mode.
type Dataset struct {
	Mode      Mode
	Documents []Document
}

func (d *Dataset) Len() int {
	return len(d.Documents)
}

func (d *Dataset) Texts() []string {
	out := make([]string, len(d.Documents))
	for i, doc := range d.Documents {
		out[i] = doc.Text
	}
	return out
}

// Labels returns the class labels; unlabeled documents yield "".
func (d *Dataset) Labels() []string {
	out := make([]string, len(d.Documents))
	for i, doc := range d.Documents {
		out[i] = doc.Label
	}
	return out
}

func (d *Dataset) FileNames() []string {
	out := make([]string, len(d.Documents))
	for i, doc := range d.Documents {
		out[i] = doc.FileName
	}
	return out
}
