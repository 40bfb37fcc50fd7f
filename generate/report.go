package generate

import "fmt"

// Result is the outcome of [Generator.Generate].
type Result struct {
	Document *Document
	Report   Report
}

// Report lists every processed file in processing order, together with the
// error that made it fail, if any.
type Report struct {
	Entries []Entry
}

// Entry is the outcome for a single file. Err is nil if documentation was
// generated and appended to the document.
type Entry struct {
	Path string
	Err  error
}

// OK reports whether documentation was generated for the file.
func (e Entry) OK() bool {
	return e.Err == nil
}

// Succeeded returns the entries of the files that were documented.
func (r Report) Succeeded() []Entry {
	return r.filter(true)
}

// Failed returns the entries of the files that failed.
func (r Report) Failed() []Entry {
	return r.filter(false)
}

func (r Report) filter(ok bool) []Entry {
	var out []Entry
	for _, e := range r.Entries {
		if e.OK() == ok {
			out = append(out, e)
		}
	}
	return out
}

// CompletionError is the error of a file whose documentation could not be
// generated. It wraps the underlying read or service error.
type CompletionError struct {
	Path string
	Err  error
}

func (err *CompletionError) Error() string {
	return fmt.Sprintf("An error occurred with %s: %v", err.Path, err.Err)
}

func (err *CompletionError) Unwrap() error {
	return err.Err
}

// NoticeKind is the severity of a [Notice].
type NoticeKind string

const (
	Success = NoticeKind("success")
	Info    = NoticeKind("info")
	Warning = NoticeKind("warning")
	Error   = NoticeKind("error")
)

// Notice is a user-facing message about a processed file or the state of an
// upload. Path is empty for notices that are not about a single file.
type Notice struct {
	Kind    NoticeKind `json:"kind"`
	Path    string     `json:"path,omitempty"`
	Message string     `json:"message"`
}
