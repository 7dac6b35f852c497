package mc

// FilledMapItemID is the item id of a filled map in the client's item registry
func FilledMapItemID(v ProtocolVersion) int {
	switch {
	case v.AtLeast(V1_17):
		return 847
	case v.AtLeast(V1_16):
		return 733
	case v.AtLeast(V1_14):
		return 671
	case v.AtLeast(V1_13):
		return 608
	}
	return 358
}

// MapItemTag is the item nbt that links a filled map item to its map id
type MapItemTag struct {
	Map int32 `nbt:"map"`
}

// FilledMap builds the map item for mapID. Before 1.13 the map id travels in
// the damage value, from 1.13 on it moved into the item's nbt.
func FilledMap(v ProtocolVersion, mapID int) ItemStack {
	item := ItemStack{
		ID:    FilledMapItemID(v),
		Count: 1,
		Data:  int16(mapID),
	}
	if Supports(v, FeatureItemMapTag) {
		item.NBT = MapItemTag{Map: int32(mapID)}
	}
	return item
}
