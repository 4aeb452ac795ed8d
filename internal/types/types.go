package types

type Action string

const (
	ActionAdd    Action = "add"    // url added to the blocklist
	ActionRemove Action = "remove" // url removed from the blocklist
)

type LogFormat string

const (
	LogFormatText LogFormat = "text"
	LogFormatJSON LogFormat = "json"
)
