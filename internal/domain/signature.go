package domain

// SignatureStatus represents one signing side of a contract
type SignatureStatus string

const (
	SignatureUnsigned SignatureStatus = "unsigned"
	SignatureSigned   SignatureStatus = "signed"
)

// IsValid checks if the SignatureStatus is a valid enum value
func (s SignatureStatus) IsValid() bool {
	return s == SignatureUnsigned || s == SignatureSigned
}

// ContractStatus represents the composite lifecycle status of a contract
type ContractStatus string

const (
	ContractStatusDraft             ContractStatus = "draft"
	ContractStatusSent              ContractStatus = "sent"
	ContractStatusAwaitingSignature ContractStatus = "awaiting_signature"
	ContractStatusPartiallySigned   ContractStatus = "partially_signed"
	ContractStatusSigned            ContractStatus = "signed"
	ContractStatusDeclined          ContractStatus = "declined"
	ContractStatusExpired           ContractStatus = "expired"
	ContractStatusArchived          ContractStatus = "archived"
)

// IsValid checks if the ContractStatus is a valid enum value
func (s ContractStatus) IsValid() bool {
	switch s {
	case ContractStatusDraft, ContractStatusSent, ContractStatusAwaitingSignature,
		ContractStatusPartiallySigned, ContractStatusSigned, ContractStatusDeclined,
		ContractStatusExpired, ContractStatusArchived:
		return true
	}
	return false
}

// IsTerminal reports whether the status ends the contract lifecycle
func (s ContractStatus) IsTerminal() bool {
	switch s {
	case ContractStatusSigned, ContractStatusDeclined, ContractStatusExpired, ContractStatusArchived:
		return true
	}
	return false
}

// ViewerRole identifies which side of the portal is looking
type ViewerRole string

const (
	ViewerAgency ViewerRole = "agency"
	ViewerClient ViewerRole = "client"
)

// IsValid checks if the ViewerRole is a valid enum value
func (r ViewerRole) IsValid() bool {
	return r == ViewerAgency || r == ViewerClient
}

// ContractStatusView carries both results of one reconciliation: the
// composite status stored and shown to the agency, and the status the
// given viewer should see. The two are separate fields so callers can
// never confuse a display value with the canonical one.
type ContractStatusView struct {
	Composite ContractStatus `json:"composite"`
	Display   ContractStatus `json:"display"`
}

// Reconcile derives the composite contract status from the stored
// lifecycle status and the two signature sides. Rules apply first
// match wins:
//
//	declined, expired, archived hold regardless of signatures
//	both sides signed            => signed
//	exactly one side signed      => partially_signed
//	sent or awaiting, unsigned   => awaiting_signature
//	otherwise                    => draft
func Reconcile(c *Contract) ContractStatus {
	switch c.Status {
	case ContractStatusDeclined, ContractStatusExpired, ContractStatusArchived:
		return c.Status
	}
	clientSigned := c.ClientSignature == SignatureSigned
	agencySigned := c.AgencySignature == SignatureSigned
	switch {
	case clientSigned && agencySigned:
		return ContractStatusSigned
	case clientSigned || agencySigned:
		return ContractStatusPartiallySigned
	}
	switch c.Status {
	case ContractStatusSent, ContractStatusAwaitingSignature:
		return ContractStatusAwaitingSignature
	}
	return ContractStatusDraft
}

// StatusFor runs one reconciliation and returns both the composite
// status and the viewer-relative display status. A client who already
// signed a partially signed contract sees it as signed (their part is
// done, the countersignature is not their action) while the composite
// stays partially_signed. The override applies to the client viewpoint
// only; the agency always sees the composite, so a partially signed
// contract still reads as awaiting the client's signature on their
// side.
func StatusFor(c *Contract, viewer ViewerRole) ContractStatusView {
	composite := Reconcile(c)
	display := composite
	if viewer == ViewerClient && composite == ContractStatusPartiallySigned &&
		c.ClientSignature == SignatureSigned {
		display = ContractStatusSigned
	}
	return ContractStatusView{Composite: composite, Display: display}
}

// NeedsClientSignature reports whether the contract sits in the
// client's action queue: it awaits a first signature, or is partially
// signed with the client side still unsigned.
func (c *Contract) NeedsClientSignature() bool {
	switch Reconcile(c) {
	case ContractStatusAwaitingSignature:
		return true
	case ContractStatusPartiallySigned:
		return c.ClientSignature != SignatureSigned
	}
	return false
}
