package config

import (
	"bytes"
	"text/template"
)

var configFileTmpl = template.Must(template.New("config").Parse(`# QuizHub Server configurations

# The name of the server.
name: "{{ .Name }}"

# Logging configuration.
log:
  # Log format to use. Valid values are "json", "logfmt", and "text".
  format: "{{ .Log.Format }}"
  # Time format for the log "timestamp" field.
  # Should be described in Golang's time format.
  time_format: "{{ .Log.TimeFormat }}"
  # Path to the log file. Leave empty to write to stderr.
  #path: "{{ .Log.Path }}"

# The HTTP server configuration.
http:
  # The address on which the HTTP server will listen.
  listen_addr: "{{ .HTTP.ListenAddr }}"

  # The public URL of the HTTP server.
  # This is used as the issuer of access tokens.
  public_url: "{{ .HTTP.PublicURL }}"

  # Allowed CORS origins.
  #cors_origins:
  #  - "https://quiz.example.com"

# The stats server configuration.
stats:
  # The address on which the stats server will listen.
  listen_addr: "{{ .Stats.ListenAddr }}"

# The database configuration.
db:
  # The database driver to use.
  # Valid values are "sqlite", "postgres", and "pgx".
  driver: "{{ .DB.Driver }}"
  # The database data source name.
  # This is driver specific and can be a file path or connection string.
  data_source: "{{ .DB.DataSource }}"

# The cache configuration.
cache:
  # The cache driver to use. Valid values are "lru", "redis", and "noop".
  driver: "{{ .Cache.Driver }}"
  # Maximum number of items kept by the lru driver.
  size: {{ .Cache.Size }}
  # How long quiz answer records are kept for export.
  ledger_ttl: "{{ .Cache.LedgerTTL }}"
  redis:
    addr: "{{ .Cache.Redis.Addr }}"
    #username: ""
    #password: ""
    db: {{ .Cache.Redis.DB }}

# Access token configuration.
jwt:
  # The path to the Ed25519 key used to sign access tokens.
  key_path: "{{ .JWT.KeyPath }}"
  # Lifetime of an access token.
  expiry: "{{ .JWT.Expiry }}"

# Cron jobs.
jobs:
  # Schedule of the quiz retake reminder sweep.
  notify_retakes: "{{ .Jobs.NotifyRetakes }}"
`))

func newConfigFile(cfg *Config) string {
	var b bytes.Buffer
	configFileTmpl.Execute(&b, cfg) // nolint: errcheck
	return b.String()
}
