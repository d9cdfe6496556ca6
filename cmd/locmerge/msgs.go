package locmerge

import (
	_ "embed"
	"strings"
)

// Short messages (one-liners)
const (
	MsgRootShort        = "Merge community translations into localization files"
	MsgRunShort         = "Reconcile sources and write every enabled variant"
	MsgCheckShort       = "Validate inputs and rules without writing anything"
	MsgCheckLong        = "Check reconciles the sources, verifies the merged key set against the reference and reports rule files with missing or cyclic imports."
	MsgExplainShort     = "Show how one key renders in every variant"
	MsgCacheShort       = "Manage the source cache"
	MsgCacheImportShort = "Import changed source files into the cache"
	MsgCacheStatusShort = "Show what the cache holds"
	MsgConfigShort      = "Manage configuration"
	MsgConfigInitShort  = "Write a commented configuration file"
	MsgVersionShort     = "Print version information"
	MsgCompletionShort  = "Generate shell completion script"
	MsgManShort         = "Generate man page"

	MsgConfigWritten = "Wrote configuration to %s"
	MsgConfigExists  = "%s already exists, use --force to overwrite"

	// Flag descriptions
	MsgFlagVerbose = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagConfig  = "Configuration file (default: locmerge.toml in the working directory)"
	MsgFlagFormat  = "Output format: auto, term, text or json"
	MsgFlagSet     = "Override a configuration value, e.g. --set paths.output=dist"
	MsgFlagVariant = "Variants to write instead of the configured ones"
	MsgFlagCache   = "Read sources through the cache"
	MsgFlagForce   = "Overwrite an existing file"
	MsgFlagOutput  = "File to write"
)

// Long messages from embedded files
var (
	//go:embed msgs/root-long.txt
	msgRootLongRaw string
	MsgRootLong    = strings.TrimSpace(msgRootLongRaw)

	//go:embed msgs/run-long.txt
	msgRunLongRaw string
	MsgRunLong    = strings.TrimSpace(msgRunLongRaw)

	//go:embed msgs/run-example.txt
	msgRunExampleRaw string
	MsgRunExample    = strings.TrimRight(msgRunExampleRaw, "\n")

	//go:embed msgs/explain-long.txt
	msgExplainLongRaw string
	MsgExplainLong    = strings.TrimSpace(msgExplainLongRaw)

	//go:embed msgs/usage-template.txt
	msgUsageTemplateRaw string
	MsgUsageTemplate    = strings.TrimSpace(msgUsageTemplateRaw)

	//go:embed msgs/completion-long.txt
	msgCompletionLongRaw string
	MsgCompletionLong    = strings.TrimSpace(msgCompletionLongRaw)
)
