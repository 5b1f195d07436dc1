package catalog

import "strings"

const thumbnailBaseURL = "https://landsatlook.usgs.gov/gen-browse?size=rrb&type=refl&product_id="

// ThumbnailURL rewrites a Collection-2 product id into the gen-browse
// preview URL. The browse product is the L1TP variant without the tier
// suffix; Landsat-9 ids additionally carry the acquisition date in the
// processing-date slot. Returns "" for ids that do not look like a
// landsat product id.
func ThumbnailURL(productID string) string {
	parts := strings.Split(productID, "_")
	if len(parts) != 7 {
		return ""
	}

	if parts[0] == "LC09" {
		parts[4] = parts[3]
	}
	parts[1] = "L1TP"
	parts = parts[:len(parts)-1]

	return thumbnailBaseURL + strings.Join(parts, "_")
}
