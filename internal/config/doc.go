// Package config provides configuration management for taskclient.
//
// Configuration is layered:
//
//  1. Built-in defaults (GetDefaultConfig)
//  2. The YAML file at ~/.config/taskclient/config.yaml, or the path given with --config
//  3. Overrides from flags and TASKCLIENT_* environment variables (ApplyOverrides)
//
// Secret values are resolved afterwards with ResolveSecrets and the result
// is checked with Config.Validate, which reports every problem at once.
//
// # Configuration Structure
//
//	taskApi:
//	  endpoint: http://localhost:8080/api/task   # Task fetch URL (required)
//	  registration: task-api-client              # OAuth2 registration to use (default: task-api-client)
//	  timeout: 30s                               # Whole-request timeout (default: 30s)
//	  strictFields: false                        # Reject tasks with missing fields
//	oauth2:
//	  registrations:
//	    task-api-client:
//	      clientId: task-api
//	      clientSecret: ENC(...)                 # or ${env:NAME} / ${keyring:NAME}
//	      tokenUrl: http://localhost:8080/api/oauth2/token
//	      scopes: [tasks.read]
//	      authStyle: header                      # header, params or auto (default: auto)
//	tokenCache:
//	  path: ~/.cache/taskclient/tokens.db        # Empty keeps tokens in memory
//	logging:
//	  level: info
//	  format: text
//
// # Environment Overrides
//
//	TASKCLIENT_TASK_API_ENDPOINT, TASKCLIENT_TASK_API_REGISTRATION,
//	TASKCLIENT_TASK_API_TIMEOUT, TASKCLIENT_TASK_API_STRICT_FIELDS,
//	TASKCLIENT_OAUTH2_CLIENT_ID, TASKCLIENT_OAUTH2_CLIENT_SECRET,
//	TASKCLIENT_OAUTH2_TOKEN_URL, TASKCLIENT_TOKEN_CACHE_PATH,
//	TASKCLIENT_LOG_LEVEL, TASKCLIENT_LOG_FORMAT
package config
