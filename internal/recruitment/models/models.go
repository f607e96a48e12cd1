package models

import "time"

// Sentinels used when an id cannot be resolved to a name
const (
	UnknownCharacter = "Unknown Character"
	UnknownLocation  = "Unknown Location"
	UnknownAssignee  = "Unknown Assignee"
	UnknownRecipient = "Unknown recipient"
	Unknown          = "UNKNOWN"
)

// CharacterProfile is the overview of one character
type CharacterProfile struct {
	CharacterID      int32   `json:"character_id"`
	Name             string  `json:"name"`
	Corporation      string  `json:"corporation"`
	Alliance         *string `json:"alliance"`
	Birthday         string  `json:"birthday"` // YYYY-MM-DD
	Gender           string  `json:"gender"`
	Race             string  `json:"race"`
	Bloodline        string  `json:"bloodline"`
	Ancestry         string  `json:"ancestry"`
	CurrentShip      *string `json:"current_ship"`
	SecurityStatus   float64 `json:"security_status"`
	Location         *string `json:"location"`
	Region           *string `json:"region"`
	TotalSkillpoints *string `json:"total_skillpoints"`
}

// SkillSet groups trained skills by skill group. Categories are ordered by name,
// skills by level descending and then by name.
type SkillSet struct {
	Categories    []SkillCategory `json:"categories"`
	TotalSP       int64           `json:"total_sp"`
	UnallocatedSP int64           `json:"unallocated_sp"`
}

type SkillCategory struct {
	Name   string  `json:"name"`
	Skills []Skill `json:"skills"`
}

type Skill struct {
	Name        string `json:"name"`
	Skillpoints int64  `json:"skillpoints"`
	Level       int    `json:"level"`
}

// Levels flattens the set into skill name -> active level.
func (s *SkillSet) Levels() map[string]int {
	levels := make(map[string]int)
	for _, c := range s.Categories {
		for _, sk := range c.Skills {
			levels[sk.Name] = sk.Level
		}
	}
	return levels
}

type SkillQueueEntry struct {
	Position      int        `json:"position"`
	SkillName     string     `json:"skill_name"`
	FinishedLevel int        `json:"finished_level"`
	StartDate     *time.Time `json:"start_date,omitempty"`
	FinishDate    *time.Time `json:"finish_date,omitempty"`
}

// AssetLocation is one surfaced top level location and its items.
type AssetLocation struct {
	LocationID int64        `json:"location_id"`
	Name       string       `json:"name"`
	Value      float64      `json:"value"`
	Items      []*AssetNode `json:"items"`
}

// AssetNode is an owned item. Value is the item's own worth plus the value of its children.
type AssetNode struct {
	ItemID    int64        `json:"item_id"`
	TypeID    int32        `json:"-"`
	TypeName  *string      `json:"type_name"`
	Name      string       `json:"name,omitempty"`
	Flag      string       `json:"flag"`
	Quantity  int32        `json:"quantity"`
	UnitPrice float64      `json:"unit_price"`
	Value     float64      `json:"value"`
	Children  []*AssetNode `json:"children,omitempty"`
}

type AssetSummary struct {
	Locations  []*AssetLocation `json:"locations"`
	TotalValue float64          `json:"total_value"`
}

type MailRecipient struct {
	Type string `json:"type"`
	Name string `json:"name"`
}

type MailMessage struct {
	MailID     int64           `json:"mail_id"`
	Subject    string          `json:"subject"`
	Timestamp  time.Time       `json:"timestamp"`
	From       string          `json:"from"`
	Recipients []MailRecipient `json:"recipients"`
	// Body is the raw EVE HTML. BodyText and BodyMarkdown are renderings of it.
	Body         string `json:"body"`
	BodyText     string `json:"body_text"`
	BodyMarkdown string `json:"body_markdown"`
	IsRead       bool   `json:"is_read"`
}

type Contract struct {
	ContractID    int64          `json:"contract_id"`
	Type          string         `json:"type"`
	Status        string         `json:"status"`
	Title         string         `json:"title,omitempty"`
	Issuer        string         `json:"issuer"`
	Assignee      string         `json:"assignee"`
	Acceptor      string         `json:"acceptor"`
	StartLocation string         `json:"start_location,omitempty"`
	EndLocation   string         `json:"end_location,omitempty"`
	Price         *float64       `json:"price,omitempty"`
	Reward        *float64       `json:"reward,omitempty"`
	Collateral    *float64       `json:"collateral,omitempty"`
	Buyout        *float64       `json:"buyout,omitempty"`
	Volume        float64        `json:"volume,omitempty"`
	DateIssued    time.Time      `json:"date_issued"`
	DateExpired   time.Time      `json:"date_expired"`
	DateCompleted *time.Time     `json:"date_completed,omitempty"`
	Items         []ContractItem `json:"items"`
	ItemsValue    float64        `json:"items_value"`
}

type ContractItem struct {
	TypeName   *string `json:"type_name"`
	Quantity   int32   `json:"quantity"`
	IsIncluded bool    `json:"is_included"`
	UnitPrice  float64 `json:"unit_price"`
	Value      float64 `json:"value"`
}

type MarketOrder struct {
	OrderID      int64     `json:"order_id"`
	TypeName     *string   `json:"type_name"`
	Location     string    `json:"location"`
	Region       string    `json:"region"`
	Price        float64   `json:"price"`
	VolumeRemain int32     `json:"volume_remain"`
	VolumeTotal  int32     `json:"volume_total"`
	IsBuyOrder   bool      `json:"is_buy_order"`
	Issued       time.Time `json:"issued"`
	Duration     int32     `json:"duration"`
	Range        string    `json:"range"`
}

type WalletSummary struct {
	Balance          float64             `json:"balance"`
	BalanceFormatted string              `json:"balance_formatted"`
	Journal          []WalletEntry       `json:"journal"`
	Transactions     []WalletTransaction `json:"transactions"`
}

type WalletEntry struct {
	ID          int64     `json:"id"`
	Date        time.Time `json:"date"`
	RefType     string    `json:"ref_type"`
	Description string    `json:"description"`
	Amount      *float64  `json:"amount,omitempty"`
	Balance     *float64  `json:"balance,omitempty"`
	FirstParty  string    `json:"first_party,omitempty"`
	SecondParty string    `json:"second_party,omitempty"`
	Reason      string    `json:"reason,omitempty"`
}

type WalletTransaction struct {
	TransactionID int64     `json:"transaction_id"`
	Date          time.Time `json:"date"`
	TypeName      *string   `json:"type_name"`
	Client        string    `json:"client"`
	Location      string    `json:"location"`
	Quantity      int32     `json:"quantity"`
	UnitPrice     float64   `json:"unit_price"`
	IsBuy         bool      `json:"is_buy"`
}

type Notification struct {
	NotificationID int64     `json:"notification_id"`
	Type           string    `json:"type"`
	Sender         string    `json:"sender"`
	Timestamp      time.Time `json:"timestamp"`
	IsRead         bool      `json:"is_read"`
	Text           string    `json:"text,omitempty"`
	// Data is Text decoded from YAML, nil when Text is empty or malformed.
	Data map[string]any `json:"data,omitempty"`
}

type Contact struct {
	Name     *string `json:"name"`
	Type     string  `json:"type"`
	Standing float64 `json:"standing"`
}

type CloneInfo struct {
	Implants          []string    `json:"implants"`
	HomeLocation      *string     `json:"home_location"`
	JumpClones        []JumpClone `json:"jump_clones"`
	LastCloneJumpDate *time.Time  `json:"last_clone_jump_date,omitempty"`
}

type JumpClone struct {
	Name     string   `json:"name,omitempty"`
	Location *string  `json:"location"`
	Implants []string `json:"implants"`
}

type CorporationHistoryEntry struct {
	StartDate   time.Time `json:"start_date"`
	Corporation string    `json:"corporation"`
	Alliance    *string   `json:"alliance"`
	IsDeleted   bool      `json:"is_deleted,omitempty"`
}

// SkillPlanResult reports which entries of a skill plan the character lacks.
type SkillPlanResult struct {
	Met     bool     `json:"met"`
	Missing []string `json:"missing"`
	Message string   `json:"message"`
}

// FitCheckResult reports whether a character can use every item of a fitting.
type FitCheckResult struct {
	CanUse  bool            `json:"can_use"`
	Items   []ItemUseResult `json:"items"`
	Unknown []string        `json:"unknown,omitempty"`
}

type ItemUseResult struct {
	Name    string   `json:"name"`
	CanUse  bool     `json:"can_use"`
	Missing []string `json:"missing,omitempty"`
}
