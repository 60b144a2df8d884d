package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestOwner_Validate(t *testing.T) {
	tests := []struct {
		name    string
		owner   Owner
		wantErr bool
		errMsg  string
	}{
		{
			name:    "valid individual owner should pass",
			owner:   Owner{ID: uuid.New(), Name: "Me", OwnerType: OwnerTypeIndividual},
			wantErr: false,
		},
		{
			name:    "valid joint owner should pass",
			owner:   Owner{ID: uuid.New(), Name: "Household", OwnerType: OwnerTypeJoint},
			wantErr: false,
		},
		{
			name:    "empty name should fail",
			owner:   Owner{ID: uuid.New(), OwnerType: OwnerTypeIndividual},
			wantErr: true,
			errMsg:  "owner name cannot be empty",
		},
		{
			name:    "unknown owner type should fail",
			owner:   Owner{ID: uuid.New(), Name: "Me", OwnerType: "Corporation"},
			wantErr: true,
			errMsg:  "owner type must be",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.owner.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				if tt.errMsg != "" {
					assert.Contains(t, err.Error(), tt.errMsg)
				}
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestAccount_Validate(t *testing.T) {
	ownerID := uuid.New()

	tests := []struct {
		name    string
		account Account
		wantErr bool
		errMsg  string
	}{
		{
			name: "valid bank account should pass",
			account: Account{
				ID:          uuid.New(),
				OwnerID:     ownerID,
				Name:        "TD Chequing",
				AccountType: AccountTypeBank,
				Currency:    "CAD",
			},
			wantErr: false,
		},
		{
			name: "valid investment account should pass",
			account: Account{
				ID:          uuid.New(),
				OwnerID:     ownerID,
				Name:        "Wealthsimple TFSA",
				AccountType: AccountTypeInvestment,
				Currency:    "CAD",
			},
			wantErr: false,
		},
		{
			name: "empty name should fail",
			account: Account{
				ID:          uuid.New(),
				OwnerID:     ownerID,
				AccountType: AccountTypeBank,
				Currency:    "CAD",
			},
			wantErr: true,
			errMsg:  "account name cannot be empty",
		},
		{
			name: "missing owner should fail",
			account: Account{
				ID:          uuid.New(),
				Name:        "TD Chequing",
				AccountType: AccountTypeBank,
				Currency:    "CAD",
			},
			wantErr: true,
			errMsg:  "account must have an owner",
		},
		{
			name: "unknown account type should fail",
			account: Account{
				ID:          uuid.New(),
				OwnerID:     ownerID,
				Name:        "TD Chequing",
				AccountType: "Crypto",
				Currency:    "CAD",
			},
			wantErr: true,
			errMsg:  "account type must be",
		},
		{
			name: "invalid currency should fail",
			account: Account{
				ID:          uuid.New(),
				OwnerID:     ownerID,
				Name:        "TD Chequing",
				AccountType: AccountTypeBank,
				Currency:    "CA",
			},
			wantErr: true,
			errMsg:  "account currency",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.account.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				if tt.errMsg != "" {
					assert.Contains(t, err.Error(), tt.errMsg)
				}
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCurrencyCode_Valid(t *testing.T) {
	assert.True(t, CurrencyCode("USD").Valid())
	assert.True(t, CurrencyCode("INR").Valid())
	assert.False(t, CurrencyCode("usd").Valid())
	assert.False(t, CurrencyCode("US").Valid())
	assert.False(t, CurrencyCode("USDT").Valid())
	assert.False(t, CurrencyCode("U$D").Valid())
	assert.False(t, CurrencyCode("").Valid())
}

func TestCurrency_Validate(t *testing.T) {
	valid := Currency{
		ID:           uuid.New(),
		Code:         "CAD",
		FlagEmoji:    "🇨🇦",
		Color:        "#DC143C",
		DisplayOrder: 1,
	}

	err := valid.Validate()
	assert.NoError(t, err)

	noFlag := valid
	noFlag.FlagEmoji = ""
	assert.Error(t, noFlag.Validate())

	noColor := valid
	noColor.Color = ""
	assert.Error(t, noColor.Validate())

	badOrder := valid
	badOrder.DisplayOrder = 0
	assert.Error(t, badOrder.Validate())

	badCode := valid
	badCode.Code = "cad"
	assert.Error(t, badCode.Validate())
}
