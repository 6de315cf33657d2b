package lock

// FileName is the build record written into the work directory.
const FileName = "interoper.lock"

// Dependency states recorded after a build.
const (
	StatusInstalled = "installed"
	StatusMissing   = "missing"
)

// Lockfile records the outcome of the last successful build in a work directory.
type Lockfile struct {
	Version        int                `yaml:"version"`
	PackageManager string             `yaml:"package_manager"`
	Backend        string             `yaml:"backend"`
	ManifestSHA256 string             `yaml:"manifest_sha256"`
	Dependencies   []LockedDependency `yaml:"dependencies"`
}

// LockedDependency records one configured dependency.
type LockedDependency struct {
	Name   string `yaml:"name"`
	Kind   string `yaml:"kind"`
	Entry  string `yaml:"entry"`
	Path   string `yaml:"path,omitempty"`
	Status string `yaml:"status"`
}

// Lookup returns the recorded dependency with the given name.
func (lf *Lockfile) Lookup(name string) (LockedDependency, bool) {
	for _, d := range lf.Dependencies {
		if d.Name == name {
			return d, true
		}
	}
	return LockedDependency{}, false
}
