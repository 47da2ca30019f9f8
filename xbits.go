package main

import (
	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/pkg/errors"
)

// ICCCM and EWMH atoms the preview window needs.
var (
	atomWMProtocols    xproto.Atom
	atomWMDeleteWindow xproto.Atom
	atomNetWMName      xproto.Atom
	atomUTF8String     xproto.Atom
)

func initAtoms(xc *xgb.Conn) error {
	for _, a := range []struct {
		atom *xproto.Atom
		name string
	}{
		{&atomWMProtocols, "WM_PROTOCOLS"},
		{&atomWMDeleteWindow, "WM_DELETE_WINDOW"},
		{&atomNetWMName, "_NET_WM_NAME"},
		{&atomUTF8String, "UTF8_STRING"},
	} {
		atom, err := getAtom(xc, a.name)
		if err != nil {
			return err
		}
		*a.atom = atom
	}
	return nil
}

func getAtom(xc *xgb.Conn, name string) (xproto.Atom, error) {
	rply, err := xproto.InternAtom(xc, false, uint16(len(name)), name).Reply()
	if err != nil {
		return 0, errors.Wrapf(err, "failed to intern %s", name)
	}
	if rply == nil {
		return 0, nil
	}
	return rply.Atom, nil
}

// encodeAtoms encodes atoms as a 32-bit property value.
func encodeAtoms(atoms ...xproto.Atom) []byte {
	v := make([]byte, 0, 4*len(atoms))
	for _, a := range atoms {
		v = append(v, byte(a), byte(a>>8), byte(a>>16), byte(a>>24))
	}
	return v
}
