package dto

import (
	"go-recruiter/internal/recruitment/models"
	"go-recruiter/pkg/sde"
)

// ProfileOutput represents the character overview response (Huma wrapper)
type ProfileOutput struct {
	Body models.CharacterProfile `json:"body"`
}

type SkillsOutput struct {
	Body models.SkillSet `json:"body"`
}

type SkillQueueOutput struct {
	Body []models.SkillQueueEntry `json:"body"`
}

type MailOutput struct {
	Body []models.MailMessage `json:"body"`
}

type AssetsOutput struct {
	Body models.AssetSummary `json:"body"`
}

type ContractsOutput struct {
	Body []models.Contract `json:"body"`
}

type MarketOrdersOutput struct {
	Body []models.MarketOrder `json:"body"`
}

type WalletOutput struct {
	Body models.WalletSummary `json:"body"`
}

type NotificationsOutput struct {
	Body []models.Notification `json:"body"`
}

type ContactsOutput struct {
	Body []models.Contact `json:"body"`
}

type ClonesOutput struct {
	Body models.CloneInfo `json:"body"`
}

type CorporationHistoryOutput struct {
	Body []models.CorporationHistoryEntry `json:"body"`
}

type SkillPlanCheckOutput struct {
	Body models.SkillPlanResult `json:"body"`
}

type FitCheckOutput struct {
	Body models.FitCheckResult `json:"body"`
}

// ItemCheckOutput represents whether an item type can be used
type ItemCheckOutput struct {
	Body ItemCheckResult `json:"body"`
}

type ItemCheckResult struct {
	TypeID int32 `json:"type_id" doc:"Item type ID"`
	CanUse bool  `json:"can_use" doc:"True when every required skill is trained to the required level"`
}

// StatusOutput represents the module status response
type StatusOutput struct {
	Body RecruitmentStatusResponse `json:"body"`
}

// RecruitmentStatusResponse represents the actual status response data
type RecruitmentStatusResponse struct {
	Module       string                  `json:"module" description:"Module name"`
	Status       string                  `json:"status" enum:"healthy,degraded,unhealthy" description:"Module health status"`
	Message      string                  `json:"message,omitempty" description:"Optional status message or error details"`
	Dependencies *RecruitmentDependencies `json:"dependencies,omitempty" description:"Status of module dependencies"`
	Reference    *sde.Stats              `json:"reference,omitempty" description:"Reference dataset statistics"`
	LastChecked  string                  `json:"last_checked" description:"Timestamp of last health check"`
}

// RecruitmentDependencies represents the status of the aggregator dependencies
type RecruitmentDependencies struct {
	Cache          string `json:"cache" description:"Cache backend status"`
	Reference      string `json:"reference" description:"Reference dataset status"`
	ESIErrorRemain int    `json:"esi_error_remain" description:"Remaining ESI error budget"`
	ESIErrorReset  string `json:"esi_error_reset,omitempty" description:"When the ESI error budget resets"`
	PricesCached   *bool  `json:"prices_cached,omitempty" description:"Whether a market price table is cached"`
}
