package models

// UserActionType classifies a moderation event.
type UserActionType string

const (
	ActionNote          UserActionType = "NOTE"
	ActionWarning       UserActionType = "WARNING"
	ActionFullBan       UserActionType = "FULL_BAN"
	ActionTicketBan     UserActionType = "TICKET_BAN"
	ActionDiscordBotBan UserActionType = "DISCORD_BOT_BAN"
	ActionBanEvasion    UserActionType = "BAN_EVASION"
	ActionUnderban      UserActionType = "UNDERBAN"
	ActionTimeout       UserActionType = "TIMEOUT"
	ActionReport        UserActionType = "REPORT"
	ActionKick          UserActionType = "KICK"
)

// UserActionTypes lists every action type in declaration order.
var UserActionTypes = []UserActionType{
	ActionNote, ActionWarning, ActionFullBan, ActionTicketBan, ActionDiscordBotBan,
	ActionBanEvasion, ActionUnderban, ActionTimeout, ActionReport, ActionKick,
}

// UserTicketType classifies a support request.
type UserTicketType string

const (
	TicketAppeal   UserTicketType = "APPEAL"
	TicketTripsit  UserTicketType = "TRIPSIT"
	TicketTech     UserTicketType = "TECH"
	TicketFeedback UserTicketType = "FEEDBACK"
)

// UserTicketTypes lists every ticket type.
var UserTicketTypes = []UserTicketType{TicketAppeal, TicketTripsit, TicketTech, TicketFeedback}

// UserTicketStatus is the lifecycle state of a ticket.
type UserTicketStatus string

const (
	TicketOpen    UserTicketStatus = "OPEN"
	TicketClosed  UserTicketStatus = "CLOSED"
	TicketBlocked UserTicketStatus = "BLOCKED"
	TicketPaused  UserTicketStatus = "PAUSED"
)

// UserTicketStatuses lists every ticket status.
var UserTicketStatuses = []UserTicketStatus{TicketOpen, TicketClosed, TicketBlocked, TicketPaused}

// DrugNameType classifies a drug name.
type DrugNameType string

const (
	DrugNameBrand        DrugNameType = "BRAND"
	DrugNameCommon       DrugNameType = "COMMON"
	DrugNameSubstitutive DrugNameType = "SUBSTITUTIVE"
	DrugNameSystematic   DrugNameType = "SYSTEMATIC"
)

// DrugNameTypes lists every drug name type.
var DrugNameTypes = []DrugNameType{DrugNameBrand, DrugNameCommon, DrugNameSubstitutive, DrugNameSystematic}

// DrugCategoryType classifies a drug category.
type DrugCategoryType string

const (
	CategoryCommon       DrugCategoryType = "COMMON"
	CategoryPsychoactive DrugCategoryType = "PSYCHOACTIVE"
	CategoryChemical     DrugCategoryType = "CHEMICAL"
)

// DrugCategoryTypes lists every category type.
var DrugCategoryTypes = []DrugCategoryType{CategoryCommon, CategoryPsychoactive, CategoryChemical}

// DrugArticleType is the content format of an article.
type DrugArticleType string

const (
	ArticleURL      DrugArticleType = "URL"
	ArticleMarkdown DrugArticleType = "MARKDOWN"
	ArticleHTML     DrugArticleType = "HTML"
)

// DrugArticleTypes lists every article type.
var DrugArticleTypes = []DrugArticleType{ArticleURL, ArticleMarkdown, ArticleHTML}

// RouteOfAdministration is how a dose is taken.
type RouteOfAdministration string

// RoutesOfAdministration lists every route. SUBCUTANIOUS keeps the stored spelling.
var RoutesOfAdministration = []RouteOfAdministration{
	"ORAL", "INSUFFLATED", "INHALED", "TOPICAL", "SUBLINGUAL", "BUCCAL",
	"RECTAL", "INTRAMUSCULAR", "INTRAVENOUS", "SUBCUTANIOUS", "TRANSDERMAL",
}

// DoseUnit is the unit a dose is measured in.
type DoseUnit string

// DoseUnits lists every unit.
var DoseUnits = []DoseUnit{"MG", "ML", "UG", "G", "OZ", "FLOZ"}
