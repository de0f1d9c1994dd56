package classify

// Message constants
const (
	MsgShort = "Show the file type and merge action of files"
	MsgLong  = `Classify describes each FILE with the configured file command and prints
the action the merge would take for it.

A file whose description matches no rule is reported as unrecognized and
makes the command fail.`
	MsgExample = `  osxuniversal classify dist/arm64/lib/libglib-2.0.a
  osxuniversal classify dist/arm64/bin/*`

	MsgUnrecognized = "unrecognized"
	MsgErrFailed    = "%d of %d files could not be classified"
)
