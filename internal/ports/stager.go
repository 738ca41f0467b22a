package ports

// Stager creates throwaway working directories for a run. The cleanup
// func removes the directory and everything under it.
type Stager interface {
	TempDir(prefix string) (path string, cleanup func() error, err error)
}
