package locate

import (
	"errors"
	"net"
	"testing"

	"github.com/oschwald/geoip2-golang"
	"github.com/oschwald/maxminddb-golang"
)

type fakeReader map[string]*geoip2.Country

func (f fakeReader) Country(ip net.IP) (*geoip2.Country, error) {
	if c, ok := f[ip.String()]; ok {
		return c, nil
	}
	return &geoip2.Country{}, nil
}

type names map[string]string

func (n names) CodeByName(name string) (string, bool) {
	c, ok := n[name]
	return c, ok
}

func country(iso, en, fr string) *geoip2.Country {
	c := &geoip2.Country{}
	c.Country.IsoCode = iso
	c.Country.Names = map[string]string{"en": en, "fr": fr}
	return c
}

func TestLocate(t *testing.T) {
	anon := &geoip2.Country{}
	anon.RegisteredCountry.IsoCode = "RS"
	anon.RegisteredCountry.Names = map[string]string{"en": "Serbia"}
	l := &Locator{r: fakeReader{
		"1.2.3.4": country("CN", "China", "Chine"),
		"5.6.7.8": country("XK", "Kosovo-ish", "Serbie"),
		"9.9.9.9": country("AQ", "Antarctica", ""),
		"8.8.4.4": anon,
	}}
	codes := names{"China": "156", "Serbia": "688", "Serbie": "688"}

	cases := []struct {
		ip, iso, code string
	}{
		{"1.2.3.4", "CN", "156"},
		{"5.6.7.8", "XK", "688"},
		{"9.9.9.9", "AQ", ""},
		{"8.8.4.4", "RS", "688"},
		{"10.0.0.1", "", ""},
	}
	for _, tc := range cases {
		res, err := l.Locate(tc.ip, codes)
		if err != nil {
			t.Fatalf("Locate(%s) error: %v", tc.ip, err)
		}
		if res.ISO != tc.iso || res.Code != tc.code {
			t.Errorf("Locate(%s) = %s/%s, want %s/%s", tc.ip, res.ISO, res.Code, tc.iso, tc.code)
		}
	}
}

func TestLocateBadIP(t *testing.T) {
	l := &Locator{r: fakeReader{}}
	if _, err := l.Locate("not-an-ip", nil); !errors.Is(err, ErrBadIP) {
		t.Errorf("err = %v, want ErrBadIP", err)
	}
}

func TestInfoFromMetadata(t *testing.T) {
	info := infoFrom(maxminddb.Metadata{DatabaseType: "GeoLite2-Country", BuildEpoch: 86400, NodeCount: 42})
	if info.DatabaseType != "GeoLite2-Country" || info.Built.Unix() != 86400 || info.NodeCount != 42 {
		t.Errorf("info = %+v", info)
	}
}
