// File path: internal/cobol/data/types.go
package data

// Section identifies the data-division section owning a declaration.
type Section string

const (
	SectionFile           Section = "FILE"
	SectionWorkingStorage Section = "WORKING-STORAGE"
	SectionLinkage        Section = "LINKAGE"
	SectionLocalStorage   Section = "LOCAL-STORAGE"
	SectionCommunication  Section = "COMMUNICATION"
	SectionUnknown        Section = "UNKNOWN"
)

// Kind is the semantic data kind inferred from a picture clause.
type Kind string

const (
	KindGroup      Kind = "group"
	KindInteger    Kind = "integer"
	KindDecimal    Kind = "decimal"
	KindAlphabetic Kind = "alphabetic"
	KindString     Kind = "string"
)

// Filler is the sentinel name for unnamed data items.
const Filler = "FILLER"

// LinkageInfo marks a declaration as a call parameter. Linkage-specific
// fields ride along as a tagged optional, not a type of their own.
type LinkageInfo struct {
	ParamIndex int
	ByValue    bool
}

// Declaration is one leveled data declaration in document order. It is
// produced flat by the Collector and never mutated afterward; the
// hierarchy builder only relinks declarations into a forest.
type Declaration struct {
	Level        int
	Name         string
	Section      Section
	Picture      string
	Kind         Kind
	Usage        string
	Value        string
	ValueThrough string
	Occurs       int
	OccursBound  int
	Redefines    string
	RenamesFrom  string
	RenamesThru  string
	Line         int
	Linkage      *LinkageInfo
}

// Elementary reports whether the declaration carries a picture of its
// own rather than grouping subordinate items.
func (d Declaration) Elementary() bool {
	return d.Picture != ""
}

// ConditionName reports an 88-level condition-name entry.
func (d Declaration) ConditionName() bool { return d.Level == 88 }

// Renames reports a 66-level RENAMES entry.
func (d Declaration) Renames() bool { return d.Level == 66 }

// FileDescriptor records an FD/SD entry. The raw definition text is kept
// for downstream consumers; its clauses are not semantically parsed here.
type FileDescriptor struct {
	Name       string
	Line       int
	Definition string
}

// InferKind maps a picture string to a semantic data kind.
func InferKind(picture string) Kind {
	if picture == "" {
		return KindGroup
	}
	hasDigit := false
	hasAlpha := false
	hasAlnum := false
	hasPoint := false
	for i := 0; i < len(picture); i++ {
		switch picture[i] {
		case '9':
			hasDigit = true
		case 'A', 'a':
			hasAlpha = true
		case 'X', 'x':
			hasAlnum = true
		case 'V', 'v', '.':
			hasPoint = true
		}
	}
	switch {
	case hasDigit:
		if hasPoint {
			return KindDecimal
		}
		return KindInteger
	case hasAlnum:
		return KindString
	case hasAlpha:
		return KindAlphabetic
	default:
		return KindGroup
	}
}
