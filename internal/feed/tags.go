package feed

// tagAliases maps UI filter-chip labels to the tag vocabulary reviews are
// stored with. Labels without an entry are queried as-is.
var tagAliases = map[string]string{
	"라떼맛집":   "라떼",
	"디저트맛집":  "디저트",
	"에스프레소바": "에스프레소",
	"핸드드립":   "드립",
	"디카페인맛집": "디카페인",
	"빵맛집":    "베이커리",
}

// CanonicalTag translates a display label into the internal tag vocabulary.
func CanonicalTag(label string) string {
	if tag, ok := tagAliases[label]; ok {
		return tag
	}
	return label
}
