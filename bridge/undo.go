package bridge

// UndoMode maps a caller's undo-grouping policy onto the host's
// command-grouping primitive.
type UndoMode int

const (
	// UndoEntire groups the whole call into one undo step labelled with
	// the request's UndoLabel.
	UndoEntire UndoMode = iota

	// UndoAuto lets the host manage its own per-operation undo steps.
	UndoAuto

	// UndoNone applies no undo grouping at all. Used for read-only calls
	// and for the undo-stepping operation itself, so stepping the undo
	// history never nests inside a new undo group.
	UndoNone
)

// ParseUndoMode maps the caller-visible strings "entire", "auto" and
// "none" onto an UndoMode. Unknown values fall back to UndoNone, the
// safest grouping for a request whose intent is unclear.
func ParseUndoMode(s string) UndoMode {
	switch s {
	case "entire":
		return UndoEntire
	case "auto":
		return UndoAuto
	default:
		return UndoNone
	}
}

// String returns the caller-visible name of the mode.
func (m UndoMode) String() string {
	switch m {
	case UndoEntire:
		return "entire"
	case UndoAuto:
		return "auto"
	default:
		return "none"
	}
}

// ScriptLanguageJavaScript is the host's enum value selecting the
// ExtendScript engine for a DoScript call.
const ScriptLanguageJavaScript int32 = 1246973031

// UndoModes enum values from the host's object model.
const (
	undoEntireScript     int32 = 1699963733 // UndoModes.ENTIRE_SCRIPT
	undoScriptRequest    int32 = 1699967573 // UndoModes.SCRIPT_REQUEST
	undoAutoUndo         int32 = 1699963221 // UndoModes.AUTO_UNDO
	undoFastEntireScript int32 = 1699964501 // UndoModes.FAST_ENTIRE_SCRIPT
)

// group resolves the mode into the transport parameter shape for one
// call. The three modes produce three mutually exclusive shapes: a
// labelled ENTIRE_SCRIPT group, a SCRIPT_REQUEST group (the host's
// per-operation default), or nil: a plain call with no undo parameters
// at all, which is a distinct call shape rather than an empty label.
func (m UndoMode) group(label string) *UndoGroup {
	switch m {
	case UndoEntire:
		return &UndoGroup{Mode: undoEntireScript, Label: label}
	case UndoAuto:
		return &UndoGroup{Mode: undoScriptRequest, Label: label}
	default:
		return nil
	}
}
