package constants

const (
	Version        = `0.1.0`
	ConfigFile     = `nvconfig`
	ConfigFileType = `yaml`
	ConfigDir      = `/.nv/`
	DataDir        = `data`
)
