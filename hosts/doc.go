/*
Package hosts reads, prunes and writes hosts-style files, that is, text files
with lines of the form:

	<address> <domain> [# comment]

A [Store] keeps all raw lines of such a file, together with the line numbers
of those lines that parse into an [types.Entry] and whose addresses aren't
excluded by an [Excluder], such as the [LoopbackFilter]. Lines that don't
parse or that are excluded are never touched, but are written back verbatim
when saving a Store.

# Reading Entries

Entries are read sequentially from a Store using [Store.Next], which advances
the Store's cursor. The cursor can be repositioned using [Store.SeekPosition]
and [Store.SeekLine]. Entries aren't cached but instead parsed again from the
raw lines on each read, so removing lines never leaves stale entries behind.

# Saving

[Store.Save] only writes when lines have been removed. An existing file is
renamed into the first unused backup name of the sequence “name.backup”,
“name (1).backup”, “name (2).backup”, and so on, before the new file gets
written. Please note that this isn't atomic: when crashing after the rename,
only the backup remains.
*/
package hosts
