package w3gs

import "net"

// sockAddrSize is the encoded size of a SockAddr record: a 2-byte
// address family, a 2-byte big-endian port, a 4-byte IPv4 address and
// 8 bytes of padding.
const sockAddrSize = 16

// afINet is the address family value the LAN protocol uses for IPv4.
const afINet = 2

// SockAddr is the LAN protocol's fixed-size socket address record,
// used to carry a peer's listen address inside PlayerInfo/ReqJoin.
type SockAddr struct {
	IP   net.IP
	Port uint16
}

// Encode appends the 16-byte wire form of a.
func (a SockAddr) Encode(c *Cursor) {
	c.WriteUint16(afINet)
	c.WriteUint8(uint8(a.Port >> 8))
	c.WriteUint8(uint8(a.Port))
	ip4 := a.IP.To4()
	if ip4 == nil {
		ip4 = net.IPv4zero.To4()
	}
	c.WriteBlob(ip4)
	c.WriteBlob(make([]byte, 8))
}

// Decode consumes sockAddrSize bytes from c and fills a.
func (a *SockAddr) Decode(c *Cursor) error {
	if _, err := c.ReadUint16(); err != nil {
		return err
	}
	portHi, err := c.ReadUint8()
	if err != nil {
		return err
	}
	portLo, err := c.ReadUint8()
	if err != nil {
		return err
	}
	ip, err := c.ReadBlob(4)
	if err != nil {
		return err
	}
	if _, err := c.ReadBlob(8); err != nil {
		return err
	}

	a.Port = uint16(portHi)<<8 | uint16(portLo)
	a.IP = append(net.IP(nil), ip...)
	return nil
}

// GameSettings describes the map and ruleset a game was created with.
type GameSettings struct {
	Flags    GameSettingFlags
	MapWidth uint16
	MapHeight uint16
	MapXoro  uint32
	MapPath  string
	HostName string
}

func (g GameSettings) encode(c *Cursor) {
	c.WriteUint32(uint32(g.Flags))
	c.WriteUint16(g.MapWidth)
	c.WriteUint16(g.MapHeight)
	c.WriteUint32(g.MapXoro)
	c.WriteString(g.MapPath)
	c.WriteString(g.HostName)
}

func (g *GameSettings) decode(c *Cursor) error {
	flags, err := c.ReadUint32()
	if err != nil {
		return err
	}
	width, err := c.ReadUint16()
	if err != nil {
		return err
	}
	height, err := c.ReadUint16()
	if err != nil {
		return err
	}
	xoro, err := c.ReadUint32()
	if err != nil {
		return err
	}
	mapPath, err := c.ReadString()
	if err != nil {
		return err
	}
	hostName, err := c.ReadString()
	if err != nil {
		return err
	}

	g.Flags = GameSettingFlags(flags)
	g.MapWidth = width
	g.MapHeight = height
	g.MapXoro = xoro
	g.MapPath = mapPath
	g.HostName = hostName
	return nil
}

func (g GameVersion) encode(c *Cursor) {
	c.WriteBlob(g.Product[:])
	c.WriteUint32(g.Version)
}

func (g *GameVersion) decode(c *Cursor) error {
	product, err := c.ReadBlob(4)
	if err != nil {
		return err
	}
	version, err := c.ReadUint32()
	if err != nil {
		return err
	}
	copy(g.Product[:], product)
	g.Version = version
	return nil
}
