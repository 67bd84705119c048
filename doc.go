/*
 * doc.go, part of relief.
 *
 *
 * Copyright 2023 Raul Mera <rmera{at}chemDOThelsinkiDOTfi>
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 *
 */

/*
Package relief builds Receptor Ligand surfacE Feature (ReLiEF) fingerprints from
molecular surfaces exported as VRML scenes.

	**relief Capabilities**

    Reads triangulated surfaces and dot surfaces from *.wrl files, plain or
	zstd-compressed.

    Slices a triangulated surface with a family of parallel planes and
	clusters the intersection points of each grid cell into depth bands,
	each of which is labeled with an alphabetic distance code. The codes of
	all the cells form the geometry fingerprint of the surface.

    Bins the colors of a dot surface into a fixed RGB lattice and turns the
	number of dots in each bin into the color-distribution fingerprint.

    Writes cumulative fingerprint tables for whole directories, plus
	per-surface intersection dumps, bit location files, bit/structure
	correspondence tables, grid maps and (optionally) PNG plots of the maps.

The subpackages do the actual work: wrl reads surfaces, geom intersects
them with planes, codes holds the distance-code table, slicer and
colorprint compute the fingerprints, fingerprint writes them, batch drives
whole directories and config holds every tunable parameter.
*/
package relief
