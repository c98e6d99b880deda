package log

// A ContextAdder adds fields to every log entry. This is used to decorate log
// lines with the emulation state at the moment the line is emitted (e.g. the
// current CPU cycle).
type ContextAdder interface {
	AddLogContext(e *EntryZ)
}

var contexts []ContextAdder

// AddContext registers a context adder. Each entry emitted afterwards carries
// the fields it adds.
func AddContext(c ContextAdder) {
	contexts = append(contexts, c)
}

// RemoveContext unregisters a context adder previously added with AddContext.
func RemoveContext(c ContextAdder) {
	for i := range contexts {
		if contexts[i] == c {
			contexts = append(contexts[:i], contexts[i+1:]...)
			return
		}
	}
}
