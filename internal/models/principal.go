package models

// Principal is the authenticated caller of a request.
type Principal struct {
	UserID  int
	Name    string
	Email   string
	IsAdmin bool
}

// CanUseShop reports whether p may browse, order and file tickets.
func CanUseShop(p *Principal) bool {
	return p != nil && p.UserID > 0
}

// CanAdminister reports whether p may manage the catalog, wallets and all orders.
func CanAdminister(p *Principal) bool {
	return CanUseShop(p) && p.IsAdmin
}

// HomePath is where p lands after login or on "/".
func HomePath(p *Principal) string {
	switch {
	case CanAdminister(p):
		return "/admin/menu"
	case CanUseShop(p):
		return "/menu"
	default:
		return "/login"
	}
}
