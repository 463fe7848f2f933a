package hash

// Hash turns a plaintext into a stored digest and checks plaintexts against it.
type Hash interface {
	Hash(str string) ([]byte, error)
	Verify(hashed, str string) bool
}
