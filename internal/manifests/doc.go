// Package manifests finds cached depot manifests in Steam's depotcache
// directory and copies them next to a generated script.
//
// A manifest belongs to a depot when its file name starts with "<depot>_"
// and ends with ".manifest". Copies preserve the source file mode.
package manifests
