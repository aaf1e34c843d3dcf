package bootstrap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	orderdomain "github.com/Apurer/gamerlink-api/internal/domains/orders/domain"
)

func plainHasher(password string) (string, error) {
	return "plain:" + password, nil
}

func TestLoadEmbedded_DerivesRatingsFromReviews(t *testing.T) {
	d, err := LoadEmbedded(plainHasher)
	require.NoError(t, err)
	require.False(t, d.Empty())

	ratings := map[int64][2]float64{}
	for _, s := range d.Services {
		ratings[s.ID] = [2]float64{s.AverageRating, float64(s.ReviewCount)}
	}
	assert.Equal(t, [2]float64{4.5, 2}, ratings[1])
	assert.Equal(t, [2]float64{5, 1}, ratings[2])
	assert.Equal(t, [2]float64{0, 0}, ratings[3])
}

func TestLoadEmbedded_NormalizesUsers(t *testing.T) {
	d, err := LoadEmbedded(plainHasher)
	require.NoError(t, err)

	byName := map[string]string{}
	for _, u := range d.Users {
		byName[u.Username] = u.PasswordHash
		assert.False(t, u.CreatedAt.IsZero())
		if u.Username == "coach" {
			assert.Equal(t, "coach@gamerlink.dev", u.Email)
			assert.Equal(t, "coach", u.Nickname)
		}
	}
	assert.Equal(t, "plain:Coach!2024", byName["coach"])
	assert.Equal(t, "plain:"+DefaultSeedPassword, byName["player"])
}

func TestLoad_KeepsStoredHashWithoutPassword(t *testing.T) {
	raw := []byte(`{"users":[{"id":9,"username":"legacy","email":"legacy@example.com","passwordHash":"stored"}]}`)

	d, err := Load(raw, plainHasher)
	require.NoError(t, err)
	require.Len(t, d.Users, 1)
	assert.Equal(t, "stored", d.Users[0].PasswordHash)
}

func TestLoad_RejectsInvalidRecords(t *testing.T) {
	_, err := Load([]byte(`{"reviews":[{"id":1,"orderId":1,"serviceId":1,"userId":1,"rating":6,"comment":"too good"}]}`), plainHasher)
	require.Error(t, err)

	_, err = Load([]byte(`{"orders":[{"id":1,"serviceId":1,"buyerId":1,"status":"Shipped","totalPrice":1}]}`), plainHasher)
	require.ErrorIs(t, err, orderdomain.ErrInvalidStatus)

	_, err = Load([]byte(`{`), plainHasher)
	require.Error(t, err)
}

func TestBcryptHasher(t *testing.T) {
	hash, err := BcryptHasher(DefaultSeedPassword)
	require.NoError(t, err)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte(DefaultSeedPassword)))
}
