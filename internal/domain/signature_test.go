package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReconcile(t *testing.T) {
	tests := []struct {
		name     string
		contract Contract
		expected ContractStatus
	}{
		{
			name:     "declined holds regardless of signatures",
			contract: Contract{Status: ContractStatusDeclined, ClientSignature: SignatureSigned, AgencySignature: SignatureSigned},
			expected: ContractStatusDeclined,
		},
		{
			name:     "expired holds regardless of signatures",
			contract: Contract{Status: ContractStatusExpired, ClientSignature: SignatureSigned},
			expected: ContractStatusExpired,
		},
		{
			name:     "archived holds regardless of signatures",
			contract: Contract{Status: ContractStatusArchived},
			expected: ContractStatusArchived,
		},
		{
			name:     "both signed gives signed",
			contract: Contract{Status: ContractStatusAwaitingSignature, ClientSignature: SignatureSigned, AgencySignature: SignatureSigned},
			expected: ContractStatusSigned,
		},
		{
			name:     "only client signed gives partially signed",
			contract: Contract{Status: ContractStatusAwaitingSignature, ClientSignature: SignatureSigned, AgencySignature: SignatureUnsigned},
			expected: ContractStatusPartiallySigned,
		},
		{
			name:     "only agency signed gives partially signed",
			contract: Contract{Status: ContractStatusSent, ClientSignature: SignatureUnsigned, AgencySignature: SignatureSigned},
			expected: ContractStatusPartiallySigned,
		},
		{
			name:     "sent and unsigned gives awaiting signature",
			contract: Contract{Status: ContractStatusSent, ClientSignature: SignatureUnsigned, AgencySignature: SignatureUnsigned},
			expected: ContractStatusAwaitingSignature,
		},
		{
			name:     "awaiting and unsigned stays awaiting",
			contract: Contract{Status: ContractStatusAwaitingSignature},
			expected: ContractStatusAwaitingSignature,
		},
		{
			name:     "never sent defaults to draft",
			contract: Contract{Status: ContractStatusDraft},
			expected: ContractStatusDraft,
		},
		{
			name:     "absent signature statuses default to draft not error",
			contract: Contract{},
			expected: ContractStatusDraft,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Reconcile(&tt.contract))
		})
	}
}

func TestReconcileSignedIffBothSigned(t *testing.T) {
	sides := []SignatureStatus{SignatureUnsigned, SignatureSigned}
	for _, client := range sides {
		for _, agency := range sides {
			c := Contract{Status: ContractStatusSent, ClientSignature: client, AgencySignature: agency}
			got := Reconcile(&c)
			if client == SignatureSigned && agency == SignatureSigned {
				assert.Equal(t, ContractStatusSigned, got)
			} else {
				assert.NotEqual(t, ContractStatusSigned, got)
			}
		}
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name          string
		contract      Contract
		viewer        ViewerRole
		wantComposite ContractStatus
		wantDisplay   ContractStatus
	}{
		{
			name:          "client who signed sees signed while composite stays partial",
			contract:      Contract{Status: ContractStatusSent, ClientSignature: SignatureSigned},
			viewer:        ViewerClient,
			wantComposite: ContractStatusPartiallySigned,
			wantDisplay:   ContractStatusSigned,
		},
		{
			name:          "agency sees partial when only client signed",
			contract:      Contract{Status: ContractStatusSent, ClientSignature: SignatureSigned},
			viewer:        ViewerAgency,
			wantComposite: ContractStatusPartiallySigned,
			wantDisplay:   ContractStatusPartiallySigned,
		},
		{
			name:          "client sees partial when only agency signed",
			contract:      Contract{Status: ContractStatusSent, AgencySignature: SignatureSigned},
			viewer:        ViewerClient,
			wantComposite: ContractStatusPartiallySigned,
			wantDisplay:   ContractStatusPartiallySigned,
		},
		{
			name:          "fully signed displays signed to everyone",
			contract:      Contract{Status: ContractStatusSent, ClientSignature: SignatureSigned, AgencySignature: SignatureSigned},
			viewer:        ViewerAgency,
			wantComposite: ContractStatusSigned,
			wantDisplay:   ContractStatusSigned,
		},
		{
			name:          "declined displays declined to the client",
			contract:      Contract{Status: ContractStatusDeclined, ClientSignature: SignatureSigned},
			viewer:        ViewerClient,
			wantComposite: ContractStatusDeclined,
			wantDisplay:   ContractStatusDeclined,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			view := StatusFor(&tt.contract, tt.viewer)
			assert.Equal(t, tt.wantComposite, view.Composite)
			assert.Equal(t, tt.wantDisplay, view.Display)
		})
	}
}

func TestNeedsClientSignature(t *testing.T) {
	tests := []struct {
		name     string
		contract Contract
		expected bool
	}{
		{
			name:     "awaiting signature needs action",
			contract: Contract{Status: ContractStatusSent},
			expected: true,
		},
		{
			name:     "agency signed but client not needs action",
			contract: Contract{Status: ContractStatusSent, AgencySignature: SignatureSigned},
			expected: true,
		},
		{
			name:     "client signed awaiting countersignature needs no client action",
			contract: Contract{Status: ContractStatusSent, ClientSignature: SignatureSigned},
			expected: false,
		},
		{
			name:     "fully signed needs no action",
			contract: Contract{Status: ContractStatusSent, ClientSignature: SignatureSigned, AgencySignature: SignatureSigned},
			expected: false,
		},
		{
			name:     "declined needs no action",
			contract: Contract{Status: ContractStatusDeclined},
			expected: false,
		},
		{
			name:     "expired needs no action",
			contract: Contract{Status: ContractStatusExpired},
			expected: false,
		},
		{
			name:     "draft needs no action",
			contract: Contract{Status: ContractStatusDraft, ClientSignature: SignatureUnsigned, AgencySignature: SignatureUnsigned},
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.contract.NeedsClientSignature())
		})
	}
}
