/*
 * observer.go, part of goqmmm
 *
 * Copyright 2025 Raul Mera A. (raulpuntomeraatusachpuntocl)
 *
    This program is free software: you can redistribute it and/or modify
    it under the terms of the GNU Lesser General Public License as published by
    the Free Software Foundation, either version 2.1 of the License, or
    (at your option) any later version.

    This program is distributed in the hope that it will be useful,
    but WITHOUT ANY WARRANTY; without even the implied warranty of
    MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
    GNU General Public License for more details.

    You should have received a copy of the GNU Lesser General Public License
    along with this program.  If not, see <http://www.gnu.org/licenses/>.
 *
 *
*/

package dep

import (
	"time"

	"github.com/hashicorp/go-hclog"
)

//LogObserver logs every recomputation and invalidation at Trace level.
type LogObserver struct {
	Logger hclog.Logger
}

func (l LogObserver) Recomputed(name string, took time.Duration) {
	l.Logger.Trace("recomputed", "node", name, "took", took)
}

func (l LogObserver) Invalidated(name string) {
	l.Logger.Trace("invalidated", "node", name)
}
