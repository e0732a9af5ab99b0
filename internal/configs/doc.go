// Package configs manages on-disk store configuration for enject.
//
// Each store lives in its own directory:
//
//   - Project store: <project>/.enject/ (legacy name .enveil)
//   - Global store: <user config dir>/enject/global/, or $ENJECT_GLOBAL_DIR
//
// A store directory holds config.toml, the encrypted store file and an
// append-only audit log.
//
// # Config
//
// config.toml records the backend, the KDF name and its cost parameters, the
// hex-encoded salt and a store UUID:
//
//	backend = "password"
//	version = 1
//	kdf = "argon2id"
//	m_cost = 65536
//	t_cost = 3
//	p_cost = 4
//	salt = "<64 hex chars>"
//	store_id = "<uuid>"
//
// Read validates every field and reports problems as ErrInvalidConfig. A
// missing file is ErrStoreNotInitialized.
//
// # Directory Resolution
//
// ResolveDir is the single place that decides between .enject and .enveil.
// Nothing here renames directories implicitly; MigrateLegacyDir does that and
// is only called by the migrate command.
package configs
