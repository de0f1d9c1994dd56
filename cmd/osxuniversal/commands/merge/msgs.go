package merge

// Message constants
const (
	MsgShort = "Merge architecture trees into a universal tree"
	MsgLong  = `Merge walks the first INPUT tree and writes a universal tree to OUTPUT.

Each file is located in every INPUT tree, classified and handled according
to the action table: binaries are fused with lipo, libtool files skipped,
symbolic links recreated and other files copied from the first tree.
Files missing from some trees are listed in the report.

At least two INPUT trees are required.`
	MsgExample = `  osxuniversal merge dist/universal dist/armv7 dist/arm64
  osxuniversal merge -j 8 --ext a --ext dylib out x86_64 arm64
  osxuniversal merge --format json --report merge.json out x86_64 arm64`

	MsgFlagExt       = "Only merge files with this extension (repeatable)"
	MsgFlagJobs      = "Number of files processed at once"
	MsgFlagKeepGoing = "Record lipo failures and continue merging"
	MsgFlagFormat    = "Report format: text, json, yaml, toml or xml"
	MsgFlagReport    = "Write the report to this file instead of stdout"
	MsgFlagDryRun    = "Show what would be done without writing anything"

	MsgErrArgs = "merge needs an OUTPUT and at least two INPUT trees, got %d arguments"
)
