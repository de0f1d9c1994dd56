package genconfig

// Message constants
const (
	MsgShort   = "Print the default configuration file"
	MsgLong    = "Output the default configuration as TOML.\n\nWith --current the effective configuration is printed instead, after the\nconfig file and environment have been applied. With -w the output is\nwritten to the user config file, which must not exist yet."
	MsgExample = `  osxuniversal genconfig
  osxuniversal genconfig --current
  osxuniversal genconfig -w`

	MsgFlagWrite   = "Write to the user config file instead of stdout"
	MsgFlagCurrent = "Print the effective configuration"

	MsgWritten = "Wrote %s\n"
)
