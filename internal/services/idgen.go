package services

import (
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/moeedrafique/cea/internal/models"
)

const applicationIDPrefix = "PK-CEAAJK"

var feeTypeCodes = map[models.FeeType]string{
	models.FeeTypeNewRegistration:          "NRG",
	models.FeeTypeRenewal:                  "RNW",
	models.FeeTypeChangeOfInformation:      "ICG",
	models.FeeTypeTransferOfOwnership:      "TOO",
	models.FeeTypeTransferOfOwnershipDeath: "TOD",
}

const (
	transactionIDLength   = 16
	transactionIDAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
)

// NextApplicationID reserves the next sequential application ID for the
// given fee type within the current year, formatted as
// PK-CEAAJK-<code>-<year>-<NNNN>. The underlying sequence row is
// incremented inside the caller's transaction, so the number stays
// reserved until the transaction commits or rolls back.
func NextApplicationID(tx *gorm.DB, feeType models.FeeType, now time.Time) (string, error) {
	code, ok := feeTypeCodes[feeType]
	if !ok {
		code = "UNKNOWN"
	}
	year := now.Year()

	number, err := reserveSequenceNumber(tx, feeType, year, fmt.Sprintf("%s-%s-%d-", applicationIDPrefix, code, year))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s-%s-%d-%04d", applicationIDPrefix, code, year, number), nil
}

// NextTransactionID returns a random 16-character alphanumeric
// transaction ID for cash submissions. No uniqueness check is made;
// the collision probability over 62^16 is accepted as negligible.
func NextTransactionID() string {
	b := make([]byte, transactionIDLength)
	for i := range b {
		b[i] = transactionIDAlphabet[rand.Intn(len(transactionIDAlphabet))]
	}
	return string(b)
}

// reserveSequenceNumber atomically claims the next number for the
// (fee type, year) pair. A missing row is seeded from the highest
// legacy application ID matching prefix, so sequences issued before
// the sequence table existed continue instead of restarting.
func reserveSequenceNumber(tx *gorm.DB, feeType models.FeeType, year int, prefix string) (int, error) {
	res := tx.Model(&models.ApplicationSequence{}).
		Where("fee_type = ? AND year = ?", feeType, year).
		Update("last_number", gorm.Expr("last_number + 1"))
	if res.Error != nil {
		return 0, res.Error
	}

	if res.RowsAffected == 0 {
		seed, err := highestIssuedNumber(tx, prefix)
		if err != nil {
			return 0, err
		}
		if err := seedSequenceRow(tx, feeType, year, seed); err != nil {
			return 0, err
		}
		// Claim the next number from the row, whichever transaction
		// ended up inserting it.
		res = tx.Model(&models.ApplicationSequence{}).
			Where("fee_type = ? AND year = ?", feeType, year).
			Update("last_number", gorm.Expr("last_number + 1"))
		if res.Error != nil {
			return 0, res.Error
		}
	}

	var seq models.ApplicationSequence
	if err := tx.Where("fee_type = ? AND year = ?", feeType, year).First(&seq).Error; err != nil {
		return 0, err
	}
	return seq.LastNumber, nil
}

// seedSequenceRow inserts the counter row at seed. A concurrent
// submission may insert it first; ON CONFLICT DO NOTHING keeps the
// losing transaction usable, where a raw duplicate-key error would
// abort it on postgres.
func seedSequenceRow(tx *gorm.DB, feeType models.FeeType, year int, seed int) error {
	return tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "fee_type"}, {Name: "year"}},
		DoNothing: true,
	}).Create(&models.ApplicationSequence{
		FeeType:    string(feeType),
		Year:       year,
		LastNumber: seed,
	}).Error
}

// highestIssuedNumber scans application IDs issued before the sequence
// table existed. Members carry registration IDs, change requests carry
// renewal IDs; both are checked.
func highestIssuedNumber(tx *gorm.DB, prefix string) (int, error) {
	highest := 0
	for _, model := range []interface{}{&models.Member{}, &models.ChangeRequest{}} {
		var ids []string
		if err := tx.Model(model).
			Where("application_id LIKE ?", prefix+"%").
			Pluck("application_id", &ids).Error; err != nil {
			return 0, err
		}
		for _, id := range ids {
			parts := strings.Split(id, "-")
			n, err := strconv.Atoi(parts[len(parts)-1])
			if err != nil {
				continue
			}
			if n > highest {
				highest = n
			}
		}
	}
	return highest, nil
}
