package vmem

import (
	"fmt"
	"os"
	"path"
	"strconv"
	"strings"

	e "gather/error"
)

type MemoryRegion struct {
	Start  uint64
	End    uint64
	Perms  string
	Offset uint64
	Device string
	Inode  uint64
	Path   string
}

// ParseMaps parses /proc/[pid]/maps.
func ParseMaps(pid int) ([]MemoryRegion, error) {
	data, err := os.ReadFile(fmt.Sprintf("/proc/%d/maps", pid))
	if err != nil {
		return nil, err
	}

	return parseMapsData(data), nil
}

func parseMapsData(data []byte) []MemoryRegion {
	var regions []MemoryRegion
	for _, line := range strings.Split(string(data), "\n") {
		if line == "" {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) < 5 {
			continue
		}

		addrs := strings.Split(fields[0], "-")
		start, _ := strconv.ParseUint(addrs[0], 16, 64)
		end, _ := strconv.ParseUint(addrs[1], 16, 64)

		region := MemoryRegion{
			Start:  start,
			End:    end,
			Perms:  fields[1],
			Offset: parseHex(fields[2]),
			Device: fields[3],
			Inode:  parseHex(fields[4]),
		}
		if len(fields) > 5 {
			region.Path = fields[5]
		}
		regions = append(regions, region)
	}
	return regions
}

// ModuleBase returns the load address of the first mapping whose backing
// file matches name (either the full path or its base name).
func ModuleBase(pid int, name string) (uint64, error) {
	regions, err := ParseMaps(pid)
	if err != nil {
		return 0, err
	}

	return moduleBase(regions, name)
}

func moduleBase(regions []MemoryRegion, name string) (uint64, error) {
	for _, r := range regions {
		if r.Path == "" {
			continue
		}
		if r.Path == name || path.Base(r.Path) == name {
			return r.Start, nil
		}
	}
	return 0, e.ModuleNotFound
}

// RegionFor returns the mapping containing addr.
func RegionFor(regions []MemoryRegion, addr uint64) (MemoryRegion, error) {
	for _, r := range regions {
		if addr >= r.Start && addr < r.End {
			return r, nil
		}
	}
	return MemoryRegion{}, e.RegionNotFound
}

func parseHex(s string) uint64 {
	if s == "0" {
		return 0
	}
	val, _ := strconv.ParseUint(s, 16, 64)
	return val
}
