package badger

// Key layout: one keyspace per table, record key addressed by digest.
const recordKeyPrefix = "tbl"

// makeRecordKey generates the key for a record in a table.
// Format: tbl:<table>:<digest>
func makeRecordKey(table, digest string) []byte {
	return []byte(recordKeyPrefix + ":" + table + ":" + digest)
}

// makeTablePrefix generates the key prefix covering a whole table.
func makeTablePrefix(table string) []byte {
	return []byte(recordKeyPrefix + ":" + table + ":")
}
