// SPDX-License-Identifier: ISC

package token

import (
	"sort"
)

// idList - ascending list of token ids with incremental maintenance
type idList []ID

// index of the first element >= id
func (list idList) search(id ID) int {
	return sort.Search(len(list), func(i int) bool {
		item := list[i]
		return item.Cmp(&id) >= 0
	})
}

func (list idList) insert(id ID) idList {
	i := list.search(id)
	if i < len(list) && list[i] == id {
		return list
	}
	list = append(list, ID{})
	copy(list[i+1:], list[i:])
	list[i] = id
	return list
}

func (list idList) remove(id ID) idList {
	i := list.search(id)
	if i >= len(list) || list[i] != id {
		return list
	}
	copy(list[i:], list[i+1:])
	return list[:len(list)-1]
}

// page - up to take ids strictly above the exclusive bound prev
func (list idList) page(prev *ID, take int) []ID {
	start := 0
	if nil != prev {
		start = list.search(*prev)
		if start < len(list) && list[start] == *prev {
			start += 1
		}
	}

	end := len(list)
	if take >= 0 && start+take < end {
		end = start + take
	}

	result := make([]ID, end-start)
	copy(result, list[start:end])
	return result
}
