package dataset

// Names of the built-in datasets.
const (
	MasterDataName      = "master_data"
	ResourceBundlesName = "resource_bundle"
	OrdinalsName        = "ordinals"
)

// OrdinalsKey is the single row key the ordinals dataset persists under.
const OrdinalsKey = "ordinals_key"

// MasterData holds framework terms keyed by category. The result object is
// the body itself, one row per category.
func MasterData(fetch Fetcher) Definition {
	return Definition{
		Name:        MasterDataName,
		BundledFile: "master_data.json",
		Fetch:       fetch,
	}
}

// ResourceBundles holds localized strings keyed by locale code, nested under
// a "resourcebundles" wrapper in the response.
func ResourceBundles(fetch Fetcher) Definition {
	return Definition{
		Name:        ResourceBundlesName,
		BundledFile: "resource_bundle.json",
		WrapperKey:  "resourcebundles",
		Fetch:       fetch,
	}
}

// Ordinals holds display-order lists. The whole body is persisted as one row
// under OrdinalsKey.
func Ordinals(fetch Fetcher) Definition {
	return Definition{
		Name:         OrdinalsName,
		BundledFile:  "ordinals.json",
		WrapperKey:   "ordinals",
		SingleRowKey: OrdinalsKey,
		Fetch:        fetch,
	}
}
