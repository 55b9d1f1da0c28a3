package logger

// Kinds written to the kind field of every entry.
const (
	KindInfo    = "info"
	KindSuccess = "success"
	KindWarning = "warning"
	KindFailed  = "failed"
	KindSystem  = "system"
	KindObject  = "object"
)

// Field names used by the zerolog implementation.
const (
	KindFieldName   = "kind"
	UnitFieldName   = "unit"
	ObjectFieldName = "object"
)

// Sink accepts leveled messages tagged with the emitter identity.
// Implementations must never panic.
type Sink interface {
	Info(msg string)
	Success(msg string)
	Failed(msg string)
	Warning(msg string)
	System(msg string)
	// Object logs structured data; serialization failures are reported via Failed.
	Object(data interface{})
	// Named returns a sink tagging entries with the supplied emitter name.
	Named(name string) Sink
}

type nop struct{}

func (nop) Info(string)         {}
func (nop) Success(string)      {}
func (nop) Failed(string)       {}
func (nop) Warning(string)      {}
func (nop) System(string)       {}
func (nop) Object(interface{})  {}
func (n nop) Named(string) Sink { return n }

// Nop returns a sink discarding everything.
func Nop() Sink { return nop{} }
