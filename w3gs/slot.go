package w3gs

// NumSlots is the fixed number of LAN slot positions a SlotInfo frame
// always carries, regardless of how many are actually in use.
const NumSlots = 24

// slotRecordSize is the encoded size of a single Slot, in bytes.
const slotRecordSize = 9

// Slot is one of the 24 fixed LAN slot positions.
type Slot struct {
	PlayerID       uint8
	DownloadStatus uint8
	SlotStatus     SlotStatus
	Computer       bool
	Team           uint8
	Color          uint8
	Race           RacePref
	ComputerType   ComputerType
	Handicap       uint8
}

// Encode appends this slot's 9-byte wire form to c, in the field order
// the LAN protocol requires: player id, download status, slot status,
// computer flag, team, color, race, computer type, handicap.
func (s Slot) Encode(c *Cursor) {
	c.WriteUint8(s.PlayerID)
	c.WriteUint8(s.DownloadStatus)
	c.WriteUint8(uint8(s.SlotStatus))
	c.WriteBool(s.Computer)
	c.WriteUint8(s.Team)
	c.WriteUint8(s.Color)
	c.WriteUint8(uint8(s.Race))
	c.WriteUint8(uint8(s.ComputerType))
	c.WriteUint8(s.Handicap)
}

// Decode consumes slotRecordSize bytes from c and fills s.
func (s *Slot) Decode(c *Cursor) error {
	playerID, err := c.ReadUint8()
	if err != nil {
		return err
	}
	download, err := c.ReadUint8()
	if err != nil {
		return err
	}
	status, err := c.ReadUint8()
	if err != nil {
		return err
	}
	computer, err := c.ReadBool()
	if err != nil {
		return err
	}
	team, err := c.ReadUint8()
	if err != nil {
		return err
	}
	color, err := c.ReadUint8()
	if err != nil {
		return err
	}
	race, err := c.ReadUint8()
	if err != nil {
		return err
	}
	computerType, err := c.ReadUint8()
	if err != nil {
		return err
	}
	handicap, err := c.ReadUint8()
	if err != nil {
		return err
	}

	s.PlayerID = playerID
	s.DownloadStatus = download
	s.SlotStatus = SlotStatus(status)
	s.Computer = computer
	s.Team = team
	s.Color = color
	s.Race = RacePref(race)
	s.ComputerType = ComputerType(computerType)
	s.Handicap = handicap
	return nil
}

// SlotInfo is the wire image of a game's full 24-slot layout.
type SlotInfo struct {
	RandomSeed int32
	Layout     SlotLayout
	NumPlayers uint8
	Slots      [NumSlots]Slot
}

// slotInfoBodySize is the byte size of everything following the
// embedded u32 length prefix: num_slots(1) + 24*slot(9) + seed(4) +
// layout(1) + num_players(1).
const slotInfoBodySize = 1 + NumSlots*slotRecordSize + 4 + 1 + 1

// Encode appends the full SlotInfo wire form: a computed u32 length
// prefix followed by num_slots, the 24 slot records, the random seed,
// the layout byte and the player count.
func (si SlotInfo) Encode(c *Cursor) {
	c.WriteUint32(uint32(slotInfoBodySize))
	c.WriteUint8(NumSlots)
	for _, s := range si.Slots {
		s.Encode(c)
	}
	c.WriteUint32(uint32(si.RandomSeed))
	c.WriteUint8(uint8(si.Layout))
	c.WriteUint8(si.NumPlayers)
}

// Decode parses a SlotInfo from c, validating that the embedded length
// prefix matches the actual size of the body that follows it.
func (si *SlotInfo) Decode(c *Cursor) error {
	declaredLen, err := c.ReadUint32()
	if err != nil {
		return err
	}
	if declaredLen != uint32(slotInfoBodySize) {
		return ErrLengthMismatch
	}

	numSlots, err := c.ReadUint8()
	if err != nil {
		return err
	}
	if numSlots != NumSlots {
		return ErrLengthMismatch
	}

	for i := range si.Slots {
		if err := si.Slots[i].Decode(c); err != nil {
			return err
		}
	}

	seed, err := c.ReadUint32()
	if err != nil {
		return err
	}
	layout, err := c.ReadUint8()
	if err != nil {
		return err
	}
	numPlayers, err := c.ReadUint8()
	if err != nil {
		return err
	}

	si.RandomSeed = int32(seed)
	si.Layout = SlotLayout(layout)
	si.NumPlayers = numPlayers
	return nil
}
