package evegateway

// ESI scopes used by the character endpoints
const (
	ScopeReadLocation      = "esi-location.read_location.v1"
	ScopeReadShipType      = "esi-location.read_ship_type.v1"
	ScopeReadClones        = "esi-clones.read_clones.v1"
	ScopeReadImplants      = "esi-clones.read_implants.v1"
	ScopeReadSkills        = "esi-skills.read_skills.v1"
	ScopeReadSkillQueue    = "esi-skills.read_skillqueue.v1"
	ScopeReadAssets        = "esi-assets.read_assets.v1"
	ScopeReadMail          = "esi-mail.read_mail.v1"
	ScopeReadContacts      = "esi-characters.read_contacts.v1"
	ScopeReadContracts     = "esi-contracts.read_character_contracts.v1"
	ScopeReadWallet        = "esi-wallet.read_character_wallet.v1"
	ScopeReadMarketOrders  = "esi-markets.read_character_orders.v1"
	ScopeReadNotifications = "esi-characters.read_notifications.v1"
	ScopeReadStructures    = "esi-universe.read_structures.v1"
)
