/*Command bio-index-inspect recovers the reference sequences stored in a
  serialized genome index and prints them as FASTA records on stdout, in
  reference order.  With -names it prints only the sequence names; with
  -summary it prints a tab-separated table of the index parameters and the
  (name, length) pairs.  With -ebwt-ref the references are reconstructed by
  walking the index text position by position instead of decoding the packed
  reference store; this is slower but preserves colors for colorspace
  indexes.

  Usage: bio-index-inspect [-across=60] [-names|-summary|-ebwt-ref] indexpath
*/
package main
