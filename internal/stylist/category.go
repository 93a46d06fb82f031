package stylist

import "strings"

// Outfit slots used by the look backend.
const (
	SlotFullBody    = "FullBody"
	SlotBottoms     = "Bottoms"
	SlotOuterwear   = "Outerwear"
	SlotTops        = "Tops"
	SlotShoes       = "Shoes"
	SlotAccessories = "Accessories"
)

// Order matters: "Kurta Set" is a full-body piece, not a top.
var slotKeywords = []struct {
	slot     string
	keywords []string
}{
	{SlotFullBody, []string{"set", "suit", "sherwani", "pajama", "co-ords", "overall", "jumpsuit", "dress"}},
	{SlotBottoms, []string{"jeans", "trouser", "pant", "chinos", "jogger", "short", "bottom", "skirt", "legging"}},
	{SlotOuterwear, []string{"jacket", "blazer", "coat", "bandhgala", "vest", "cardigan", "outerwear"}},
	{SlotTops, []string{"shirt", "top", "tee", "t-shirt", "kurta", "tunic", "blouse"}},
	{SlotShoes, []string{"shoe", "sneaker", "boot", "sandal", "footwear", "heel", "flat", "loafer", "mojari"}},
}

// MapCategory buckets a free-form category name into an outfit slot.
// Anything unrecognized is an accessory.
func MapCategory(category string) string {
	c := strings.ToLower(category)
	for _, s := range slotKeywords {
		for _, kw := range s.keywords {
			if strings.Contains(c, kw) {
				return s.slot
			}
		}
	}
	return SlotAccessories
}
