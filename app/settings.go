package app

import (
	"github.com/spf13/viper"
)

const (
	KeyServerAddr    = "server.addr"
	KeyDefaultStatus = "pos.default_status"
	KeyDatasource    = "pos.datasource"
	KeySQLLog        = "pos.sql_log"
)

// Settings is the typed view of the keys the pos application reads.
type Settings struct {
	// ServerAddr is the listen address of the HTTP shell.
	ServerAddr string
	// DefaultStatus is the status filter applied to the order list on start:
	// all, active, completed or cancelled.
	DefaultStatus string
	// Datasource names the entry under `datasource` holding the orders.
	Datasource string
	// SQLLog enables statement logging.
	SQLLog bool
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(KeyServerAddr, ":8080")
	v.SetDefault(KeyDefaultStatus, "active")
	v.SetDefault(KeyDatasource, "default")
	v.SetDefault(KeySQLLog, false)
}

// LoadSettings reads Settings from v. A nil v yields the defaults.
func LoadSettings(v *viper.Viper) Settings {
	if v == nil {
		v = viper.New()
		setDefaults(v)
	}
	return Settings{
		ServerAddr:    v.GetString(KeyServerAddr),
		DefaultStatus: v.GetString(KeyDefaultStatus),
		Datasource:    v.GetString(KeyDatasource),
		SQLLog:        v.GetBool(KeySQLLog),
	}
}
