package ports

// PasswordHasher hashes and verifies scheme-tagged password hashes.
// Hash always emits the currently preferred scheme; Compare dispatches on the
// tag embedded in the stored hash so legacy and current schemes coexist.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}
