package attribution

// Fulfillment statuses, in priority order. Cancelled dominates everything
// else regardless of insertion order.
const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusConfirmed  = "confirmed"
	StatusShipped    = "shipped"
	StatusDelivered  = "delivered"
	StatusCancelled  = "cancelled"
)

var statusRank = map[string]int{
	StatusPending:    1,
	StatusProcessing: 2,
	StatusConfirmed:  3,
	StatusShipped:    4,
	StatusDelivered:  5,
	StatusCancelled:  6,
}

// ValidStatus reports whether s is a recognized fulfillment status.
func ValidStatus(s string) bool {
	_, ok := statusRank[s]
	return ok
}

// rankOf defaults unset or unrecognized statuses to pending.
func rankOf(s string) int {
	if r, ok := statusRank[s]; ok {
		return r
	}
	return statusRank[StatusPending]
}

// DominantStatus is the highest-priority status among a set of item
// statuses. An empty set is pending.
func DominantStatus(statuses []string) string {
	dominant := StatusPending
	best := statusRank[StatusPending]
	for _, s := range statuses {
		if r := rankOf(s); r > best {
			best = r
			dominant = s
		}
	}
	return dominant
}

// dominantOfItems computes the dominant status over a seller group's items.
// It looks only at those items, so one seller updating its own items never
// moves another seller's displayed status on a shared order.
func dominantOfItems(items []GroupedItem) string {
	statuses := make([]string, len(items))
	for i, it := range items {
		statuses[i] = it.Status
	}
	return DominantStatus(statuses)
}
