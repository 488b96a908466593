package repositories

// The contact cascade is declared once and consulted by both merge and
// delete, so adding a new linked entity kind is a one-line change
// instead of two hand-written SQL sequences that can drift apart.

// cascadeDisposition says what happens to a related row when its
// contact is deleted.
type cascadeDisposition int

const (
	// cascadeDelete removes the related row outright.
	cascadeDelete cascadeDisposition = iota
	// cascadeNullOut clears the referencing column but keeps the row;
	// used for message history that must survive contact deletion.
	cascadeNullOut
)

// cascadeRelation describes one table related to a contact.
type cascadeRelation struct {
	Table    string
	FKColumn string
	// IDColumn is the relation's own primary key, used when duplicate
	// rows must be dropped during a merge.
	IDColumn string
	// NaturalKey is the SQL expression identifying a row's real-world
	// identity within one contact. During a merge, rows whose key
	// already exists on the kept contact are dropped instead of moved.
	// Empty means rows are plain references: always repointed on merge.
	NaturalKey string
	// MoveExtra is appended to the SET clause when a row moves between
	// contacts (used to force is_primary off on moved mobiles).
	MoveExtra string
	OnDelete  cascadeDisposition
}

// contactCascade is the canonical, exhaustive relation list for
// contacts. Order matters only for readability; every relation is
// applied before the contact row itself is removed.
var contactCascade = []cascadeRelation{
	{Table: "contact_emails", FKColumn: "contact_id", IDColumn: "email_id", NaturalKey: "lower(email)", OnDelete: cascadeDelete},
	{Table: "contact_mobiles", FKColumn: "contact_id", IDColumn: "mobile_id", NaturalKey: "mobile", MoveExtra: ", is_primary = false", OnDelete: cascadeDelete},
	{Table: "contact_tags", FKColumn: "contact_id", IDColumn: "contact_tag_id", NaturalKey: "tag_id::text", OnDelete: cascadeDelete},
	{Table: "contact_cities", FKColumn: "contact_id", IDColumn: "contact_city_id", NaturalKey: "city_id::text", OnDelete: cascadeDelete},
	{Table: "contact_companies", FKColumn: "contact_id", IDColumn: "contact_company_id", NaturalKey: "company_id::text", OnDelete: cascadeDelete},
	{Table: "contact_chats", FKColumn: "contact_id", IDColumn: "contact_chat_id", NaturalKey: "chat_id::text", OnDelete: cascadeDelete},
	{Table: "deals_contacts", FKColumn: "contact_id", IDColumn: "deal_contact_id", NaturalKey: "deal_id::text", OnDelete: cascadeDelete},
	{Table: "introduction_contacts", FKColumn: "contact_id", IDColumn: "introduction_contact_id", NaturalKey: "introduction_id::text", OnDelete: cascadeDelete},
	{Table: "interactions", FKColumn: "sender_contact_id", IDColumn: "interaction_id", OnDelete: cascadeNullOut},
}

// companyCascade is the relation list for companies. Domains carry a
// normalized natural key so a merge never produces two rows that clean
// up to the same domain.
var companyCascade = []cascadeRelation{
	{Table: "company_domains", FKColumn: "company_id", IDColumn: "domain_id",
		NaturalKey: "lower(trim(trailing '/' from regexp_replace(regexp_replace(domain, '^https?://', ''), '^www\\.', '')))",
		OnDelete:   cascadeDelete},
	{Table: "contact_companies", FKColumn: "company_id", IDColumn: "contact_company_id", NaturalKey: "contact_id::text", OnDelete: cascadeDelete},
}
