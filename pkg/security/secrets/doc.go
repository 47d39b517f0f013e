// The relay holds one secret: the upstream API key. It is resolved through
// a Provider on every invocation, never cached, so rotating the key only
// requires changing the environment variable or the mounted file.
//
//	env := secrets.NewEnvProvider("")
//	key, err := env.GetSecret(ctx, "AIunclesamAPIkey")
//	if errors.Is(err, secrets.ErrNotFound) {
//	    // respond with the configuration error
//	}
//
// Providers:
//   - EnvProvider: environment variables, case-sensitive names
//   - FileProvider: one file per secret in a directory (Docker/Kubernetes mounts)
//   - StaticProvider: in-memory values
//   - Chain: ordered fallback across providers
package secrets
