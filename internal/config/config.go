package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	flag "github.com/spf13/pflag"
)

var cfg *koanf.Koanf

const (
	CMD             = "cmd"
	LOG_LEVEL       = "log.level"
	SOURCE          = "source"
	POSTGRES_DSN    = "postgres.dsn"
	SQLITE_PATH     = "sqlite.path"
	JSON_PATH       = "json.path"
	DAV_URL         = "dav.url"
	DAV_USER        = "dav.user"
	DAV_PASS        = "dav.pass"
	TARGET_DIR      = "target.dir"
	EXPORT_MODE     = "export.mode"
	EXPORT_SCHEDULE = "export.schedule"
	REPORT_WEBHOOK  = "report.webhook"
	prefix          = "DAVEXPORT_"
)

func Gist() *koanf.Koanf {
	if cfg == nil {
		k, err := Load(os.Args[1:])
		if err != nil {
			log.Panic().Err(err).Msg("error loading config")
		}
		cfg = k
		lvl, err := zerolog.ParseLevel(cfg.String(LOG_LEVEL))
		if err != nil {
			log.Panic().Err(err).Msg("error parsing log level")
		}
		zerolog.SetGlobalLevel(lvl)
		printCfg()
	}
	return cfg
}

func Sprint() string {
	sb := strings.Builder{}
	sb.WriteString("cmd|required|-\n")
	sb.WriteString("log_level|optional|info\n")
	sb.WriteString("source|optional|postgres (postgres, sqlite, json, dav)\n")
	sb.WriteString("postgres_dsn|optional|postgres:///davical\n")
	sb.WriteString("sqlite_path|required for sqlite|-\n")
	sb.WriteString("json_path|required for json|-\n")
	sb.WriteString("dav_url|required for dav|-\n")
	sb.WriteString("dav_user|optional|-\n")
	sb.WriteString("dav_pass|optional|-\n")
	sb.WriteString("target_dir|optional|/tmp/dav-export\n")
	sb.WriteString("export_mode|optional|merged (merged, entries)\n")
	sb.WriteString("export_schedule|required for watch|-\n")
	sb.WriteString("report_webhook|optional|-\n")
	return sb.String()
}

// Load builds the config from DAVEXPORT_* environment variables and command
// line flags. Flags win over the environment, which wins over flag defaults.
func Load(args []string) (*koanf.Koanf, error) {
	k := koanf.New(".")

	f := flag.NewFlagSet("config", flag.ContinueOnError)
	f.Usage = func() {
		fmt.Println(f.FlagUsages())
		os.Exit(0)
	}

	f.String(CMD, "", "application run mode")
	f.String(LOG_LEVEL, "info", "log level")
	f.String(SOURCE, "postgres", "record source: postgres, sqlite, json or dav")
	f.String(POSTGRES_DSN, "postgres:///davical", "davical database connection string")
	f.String(SQLITE_PATH, "", "sqlite file holding a caldav_data table")
	f.String(JSON_PATH, "", "json_agg dump of caldav_data")
	f.String(DAV_URL, "", "caldav/carddav server url")
	f.String(DAV_USER, "", "caldav/carddav user")
	f.String(DAV_PASS, "", "caldav/carddav password")
	f.String(TARGET_DIR, "/tmp/dav-export", "export target directory")
	f.String(EXPORT_MODE, "merged", "merged: one file per collection, entries: one file per entry")
	f.String(EXPORT_SCHEDULE, "", "cron expression for the watch command")
	f.String(REPORT_WEBHOOK, "", "url receiving the export summary")
	if err := f.Parse(args); err != nil {
		return nil, errors.Wrap(err, "error parsing flags")
	}

	if err := k.Load(env.Provider(prefix, ".", func(s string) string {
		return strings.Replace(strings.ToLower(
			strings.TrimPrefix(s, prefix)), "_", ".", -1)
	}), nil); err != nil {
		return nil, errors.Wrap(err, "error loading environment")
	}
	// Unchanged flags only fill keys the environment left unset.
	if err := k.Load(posflag.Provider(f, ".", k), nil); err != nil {
		return nil, errors.Wrap(err, "error loading flags")
	}
	return k, nil
}

func printCfg() {
	log.Debug().Msgf("cmd: %s", cfg.String(CMD))
	log.Debug().Msgf("log_level: %s", cfg.String(LOG_LEVEL))
	log.Debug().Msgf("source: %s", cfg.String(SOURCE))
	log.Debug().Msgf("sqlite_path: %s", cfg.String(SQLITE_PATH))
	log.Debug().Msgf("json_path: %s", cfg.String(JSON_PATH))
	log.Debug().Msgf("dav_url: %s", cfg.String(DAV_URL))
	log.Debug().Msgf("dav_user: %s", cfg.String(DAV_USER))
	log.Debug().Msgf("target_dir: %s", cfg.String(TARGET_DIR))
	log.Debug().Msgf("export_mode: %s", cfg.String(EXPORT_MODE))
	log.Debug().Msgf("export_schedule: %s", cfg.String(EXPORT_SCHEDULE))
	log.Debug().Msgf("report_webhook: %s", cfg.String(REPORT_WEBHOOK))
}
