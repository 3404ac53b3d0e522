package relation

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/canonical/jimm-operator/pkg/config"
)

func TestMemoryGetUnestablished(t *testing.T) {
	rels := NewMemory()
	assert.Nil(t, rels.Get(Dashboard))
}

func TestMemoryAddAndGet(t *testing.T) {
	rels := NewMemory()
	rels.Add(Dashboard)

	bag := rels.Get(Dashboard)
	assert.NotNil(t, bag)

	bag.Set("controller-url", "jimm.example.com")
	assert.Equal(t, "jimm.example.com", rels.Get(Dashboard).Get("controller-url"))
}

func TestPublishDashboard(t *testing.T) {
	bag := make(MapBag)
	PublishDashboard(bag, &config.Desired{
		DNSName:   "jimm.example.com",
		CandidURL: "https://candid.example.com",
	})

	assert.Equal(t, "jimm.example.com", bag.Get("controller-url"))
	assert.Equal(t, "https://candid.example.com", bag.Get("identity-provider-url"))
	assert.Equal(t, "false", bag.Get("is-juju"))
}

func TestPublishWebsite(t *testing.T) {
	bag := make(MapBag)
	PublishWebsite(bag)
	assert.Equal(t, "8080", bag.Get("port"))
}

func TestPublishNRPECheck(t *testing.T) {
	bag := make(MapBag)
	PublishNRPECheck(bag, "10.0.0.4")

	assert.Equal(t, "JIMM", bag.Get("shortname"))
	assert.Equal(t, "check_http -w 2 -c 10 -I 10.0.0.4 -p 8080 -u /debug/info", bag.Get("check_cmd"))
}

func TestPublishIngress(t *testing.T) {
	bag := make(MapBag)
	PublishIngress(bag, &config.Desired{DNSName: "jimm.example.com"})

	assert.Equal(t, "jimm.example.com", bag.Get("service-hostname"))
	assert.Equal(t, "jimm", bag.Get("service-name"))
	assert.Equal(t, "8080", bag.Get("service-port"))
}
